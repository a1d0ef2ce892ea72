package library

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// FolderSummary is a folder with the number of items it holds
type FolderSummary struct {
	*models.Folder
	ItemCount int `json:"item_count"`
}

// ListFolders returns a user's folders sorted by name with their item counts
func (s *Service) ListFolders(ctx context.Context, userID string) ([]FolderSummary, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	folders := append([]*models.Folder(nil), snap.Folders...)
	watchlist.SortFoldersByName(folders)
	counts := snap.FolderCounts()

	out := make([]FolderSummary, 0, len(folders))
	for _, folder := range folders {
		out = append(out, FolderSummary{Folder: folder, ItemCount: counts[folder.ID]})
	}
	return out, nil
}

// CreateFolder creates a folder with a name unique among the user's folders
func (s *Service) CreateFolder(ctx context.Context, userID, name string) (*models.Folder, error) {
	var created *models.Folder
	_, err := s.mutate(ctx, userID, "create folder", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		folder, batch, err := watchlist.PlanCreateFolder(snap, userID, name, s.now())
		created = folder
		return batch, err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RenameFolder renames a folder
func (s *Service) RenameFolder(ctx context.Context, userID string, folderID uuid.UUID, name string) (Result, error) {
	return s.mutate(ctx, userID, "rename folder", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.PlanRenameFolder(snap, folderID, name)
	})
}

// DeleteFolder deletes a folder; its items become standalone
func (s *Service) DeleteFolder(ctx context.Context, userID string, folderID uuid.UUID) (Result, error) {
	return s.DeleteFolders(ctx, userID, []uuid.UUID{folderID})
}

// DeleteFolders deletes folders in one batch; their items become standalone
func (s *Service) DeleteFolders(ctx context.Context, userID string, folderIDs []uuid.UUID) (Result, error) {
	return s.mutate(ctx, userID, "delete folders", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.DeleteFolders(snap, folderIDs), nil
	})
}

// MoveTargets lists the folders an item of the given kind may be moved into,
// narrowed by a case-insensitive name search
func (s *Service) MoveTargets(ctx context.Context, userID string, watched bool, t models.MediaType, term string) ([]*models.Folder, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return watchlist.MoveTargets(snap, watched, t, term), nil
}
