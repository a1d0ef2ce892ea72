package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"gorm.io/gorm"
)

// FolderRepository handles database operations for folders
type FolderRepository struct {
	db *DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new folder into the database
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return createFolder(r.db.WithContext(ctx), folder)
}

// GetByID retrieves one of a user's folders by its UUID
func (r *FolderRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id.String(), userID).
		First(&folder)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &folder, nil
}

// ListByUser retrieves every folder of a user ordered by position
func (r *FolderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	return listFolders(r.db.WithContext(ctx), userID)
}

func listFolders(tx *gorm.DB, userID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	result := tx.
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&folders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list folders: %w", MapGormError(result.Error))
	}
	return folders, nil
}

func createFolder(tx *gorm.DB, folder *models.Folder) error {
	if err := tx.Create(folder).Error; err != nil {
		return fmt.Errorf("failed to create folder: %w", MapGormError(err))
	}
	return nil
}

func updateFolder(tx *gorm.DB, userID string, id uuid.UUID, columns map[string]interface{}) (bool, error) {
	if len(columns) == 0 {
		return true, nil
	}
	result := tx.Model(&models.Folder{}).
		Where("id = ? AND user_id = ?", id.String(), userID).
		Updates(columns)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update folder %s: %w", id, MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

func deleteFolder(tx *gorm.DB, userID string, id uuid.UUID) (bool, error) {
	result := tx.Where("id = ? AND user_id = ?", id.String(), userID).Delete(&models.Folder{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete folder %s: %w", id, MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}
