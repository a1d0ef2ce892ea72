// Package db provides database connection management, repositories and the
// batch-applying watchlist store.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for watchlist items
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item into the database
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	return createItem(r.db.WithContext(ctx), item)
}

// GetByID retrieves one of a user's items by its UUID
func (r *ItemRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id.String(), userID).
		First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// ListByUser retrieves every item of a user ordered by position
func (r *ItemRepository) ListByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	return listItems(r.db.WithContext(ctx), userID)
}

// ListUsers returns every user id that owns at least one item or folder
func (r *ItemRepository) ListUsers(ctx context.Context) ([]string, error) {
	var users []string
	result := r.db.WithContext(ctx).Raw(
		"SELECT user_id FROM items UNION SELECT user_id FROM folders ORDER BY user_id",
	).Scan(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users: %w", MapGormError(result.Error))
	}
	return users, nil
}

// Delete deletes one of a user's items
func (r *ItemRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	found, err := deleteItem(r.db.WithContext(ctx), userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func listItems(tx *gorm.DB, userID string) ([]*models.Item, error) {
	var items []*models.Item
	result := tx.
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list items: %w", MapGormError(result.Error))
	}
	return items, nil
}

func createItem(tx *gorm.DB, item *models.Item) error {
	if err := tx.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", MapGormError(err))
	}
	return nil
}

// updateItem writes columns onto one item and reports whether it existed
func updateItem(tx *gorm.DB, userID string, id uuid.UUID, columns map[string]interface{}) (bool, error) {
	if len(columns) == 0 {
		return true, nil
	}
	result := tx.Model(&models.Item{}).
		Where("id = ? AND user_id = ?", id.String(), userID).
		Updates(columns)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update item %s: %w", id, MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

func deleteItem(tx *gorm.DB, userID string, id uuid.UUID) (bool, error) {
	result := tx.Where("id = ? AND user_id = ?", id.String(), userID).Delete(&models.Item{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete item %s: %w", id, MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}
