package library

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// AddItem appends a new item to its standalone partition
func (s *Service) AddItem(ctx context.Context, userID string, in watchlist.NewItem) (*models.Item, error) {
	var created *models.Item
	_, err := s.mutate(ctx, userID, "add item", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		item, batch, err := watchlist.PlanAdd(snap, userID, in, s.now())
		created = item
		return batch, err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// QuickAdd inserts a list of titles straight into the watched list, inside
// folderID when it is set
func (s *Service) QuickAdd(ctx context.Context, userID string, entries []watchlist.QuickAddEntry, folderID *uuid.UUID) ([]*models.Item, error) {
	var created []*models.Item
	_, err := s.mutate(ctx, userID, "quick add", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		items, batch, err := watchlist.PlanQuickAdd(snap, userID, entries, folderID, s.now())
		created = items
		return batch, err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditItem writes the user-editable fields of an item and returns it as stored
func (s *Service) EditItem(ctx context.Context, userID string, itemID uuid.UUID, edit watchlist.ItemEdit) (*models.Item, error) {
	var updated *models.Item
	_, err := s.mutate(ctx, userID, "edit item", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		batch, err := watchlist.PlanEdit(snap, itemID, edit)
		if err != nil {
			return nil, err
		}
		updated = snap.Apply(batch).Item(itemID)
		return batch, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetItem returns one item of a user
func (s *Service) GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.Item, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := snap.Item(itemID)
	if item == nil {
		return nil, watchlist.ErrItemNotFound
	}
	return item, nil
}

// ListItems returns every item of a user ordered by rank
func (s *Service) ListItems(ctx context.Context, userID string) ([]*models.Item, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Items, nil
}

// DeleteItem deletes one item. Deleting an unknown item commits nothing.
func (s *Service) DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) (Result, error) {
	return s.BulkDelete(ctx, userID, []uuid.UUID{itemID})
}

// BulkDelete deletes the given items
func (s *Service) BulkDelete(ctx context.Context, userID string, ids []uuid.UUID) (Result, error) {
	return s.mutate(ctx, userID, "delete items", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.BulkDelete(snap, ids), nil
	})
}

// DeleteAllWatched empties the watched list
func (s *Service) DeleteAllWatched(ctx context.Context, userID string) (Result, error) {
	return s.mutate(ctx, userID, "delete watched items", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.DeleteAllWatched(snap), nil
	})
}

// SetWatched moves an item between the watched and unwatched lists
func (s *Service) SetWatched(ctx context.Context, userID string, itemID uuid.UUID, watched bool) (Result, error) {
	return s.mutate(ctx, userID, "set watched", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.SetWatched(snap, itemID, watched, s.now()), nil
	})
}

// MoveItem moves one item into a folder, or to standalone when folderID is nil
func (s *Service) MoveItem(ctx context.Context, userID string, itemID uuid.UUID, folderID *uuid.UUID) (Result, error) {
	return s.mutate(ctx, userID, "move item", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.MoveToFolder(snap, itemID, folderID)
	})
}

// StepItem moves an item one slot up or down within its partition
func (s *Service) StepItem(ctx context.Context, userID string, itemID uuid.UUID, dir watchlist.Direction) (Result, error) {
	return s.mutate(ctx, userID, "reorder item", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.MoveStep(snap, itemID, dir), nil
	})
}

// ReorderItem drops an item onto the position of another item of its partition
func (s *Service) ReorderItem(ctx context.Context, userID string, itemID, targetID uuid.UUID) (Result, error) {
	return s.mutate(ctx, userID, "reorder item", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.DragReorder(snap, itemID, targetID)
	})
}

// BulkMove moves the items of a view into a folder, or to standalone
func (s *Service) BulkMove(ctx context.Context, userID string, ids []uuid.UUID, folderID *uuid.UUID, view watchlist.View) (Result, error) {
	return s.mutate(ctx, userID, "move items", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.BulkMove(snap, ids, folderID, view)
	})
}

// Densify re-ranks every partition of a user
func (s *Service) Densify(ctx context.Context, userID string) (Result, error) {
	return s.mutate(ctx, userID, "densify", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		return watchlist.Densify(snap), nil
	})
}

// Duplicates groups a user's items that share a normalized title
func (s *Service) Duplicates(ctx context.Context, userID string) ([]watchlist.Group, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups := watchlist.FindDuplicates(snap.Items, watchlist.DuplicateOptions{
		MaxDistance: s.opts.DuplicateMaxDistance,
	})
	return groups, nil
}
