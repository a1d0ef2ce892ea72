package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
	"gorm.io/gorm"
)

// Store loads watchlist snapshots and commits mutation batches atomically
type Store struct {
	db       *DB
	repos    *Repositories
	notifier *Notifier

	// afterItemsRead runs inside the load transaction between the two reads
	afterItemsRead func()
}

// NewStore creates a store over db
func NewStore(db *DB) *Store {
	return &Store{
		db:       db,
		repos:    NewRepositories(db),
		notifier: NewNotifier(),
	}
}

// Repositories exposes the underlying repositories
func (s *Store) Repositories() *Repositories {
	return s.repos
}

// LoadSnapshot reads every item and folder of a user in one read transaction.
// The revision is read before the data, so a snapshot is never older than the
// revision it carries.
func (s *Store) LoadSnapshot(ctx context.Context, userID string) (*watchlist.Snapshot, error) {
	rev := s.notifier.Current(userID)

	var items []*models.Item
	var folders []*models.Folder
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if items, err = listItems(tx, userID); err != nil {
			return err
		}
		if s.afterItemsRead != nil {
			s.afterItemsRead()
		}
		folders, err = listFolders(tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := watchlist.NewSnapshot(items, folders)
	snap.Revision = rev
	return snap, nil
}

// ApplyBatch commits every mutation of batch in one transaction and publishes
// the new revision. Updates and deletes of documents that no longer exist are
// skipped; any other failure rolls the whole batch back.
func (s *Store) ApplyBatch(ctx context.Context, userID string, batch *watchlist.Batch) (uint64, error) {
	if batch.Empty() {
		return s.notifier.Current(userID), nil
	}

	skipped := 0
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, m := range batch.Mutations() {
			found, err := applyMutation(tx, userID, m)
			if err != nil {
				return err
			}
			if !found {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply batch: %w", err)
	}

	if skipped > 0 {
		logger.Log.Debug().
			Str("user_id", userID).
			Int("skipped", skipped).
			Msg("Batch referenced documents that no longer exist")
	}

	return s.notifier.Publish(userID), nil
}

// Revision returns the latest committed revision of a user
func (s *Store) Revision(userID string) uint64 {
	return s.notifier.Current(userID)
}

// Subscribe streams the revisions committed for a user
func (s *Store) Subscribe(userID string) (<-chan Revision, func()) {
	return s.notifier.Subscribe(userID)
}

// Health checks database connectivity
func (s *Store) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

func applyMutation(tx *gorm.DB, userID string, m watchlist.Mutation) (bool, error) {
	switch m.Collection {
	case watchlist.CollectionItems:
		switch m.Op {
		case watchlist.OpSet:
			item := m.Item.Clone()
			item.UserID = userID
			return true, createItem(tx, item)
		case watchlist.OpUpdate:
			return updateItem(tx, userID, m.ID, itemColumns(m.ItemChanges))
		case watchlist.OpDelete:
			return deleteItem(tx, userID, m.ID)
		}
	case watchlist.CollectionFolders:
		switch m.Op {
		case watchlist.OpSet:
			folder := m.Folder.Clone()
			folder.UserID = userID
			return true, createFolder(tx, folder)
		case watchlist.OpUpdate:
			return updateFolder(tx, userID, m.ID, folderColumns(m.FolderChanges))
		case watchlist.OpDelete:
			return deleteFolder(tx, userID, m.ID)
		}
	}
	return false, fmt.Errorf("%w: unsupported mutation %s on %s", ErrInvalidInput, m.Op, m.Collection)
}

// itemColumns converts written fields into a gorm column map. Nil pointers
// become SQL NULL.
func itemColumns(c *watchlist.ItemChanges) map[string]interface{} {
	cols := make(map[string]interface{})
	if c == nil {
		return cols
	}
	if c.Title.Set {
		cols["title"] = c.Title.Value
	}
	if c.Type.Set {
		cols["type"] = string(c.Type.Value)
	}
	if c.Watched.Set {
		cols["watched"] = c.Watched.Value
	}
	if c.WatchedAt.Set {
		cols["watched_at"] = nullable(c.WatchedAt.Value)
	}
	if c.Order.Set {
		cols["position"] = c.Order.Value
	}
	if c.FolderID.Set {
		cols["folder_id"] = nullableID(c.FolderID.Value)
	}
	if c.IsD21.Set {
		cols["is_d21"] = c.IsD21.Value
	}
	if c.Notes.Set {
		cols["notes"] = nullable(c.Notes.Value)
	}
	if c.Rating.Set {
		cols["rating_set"] = c.Rating.Value.Set
		cols["rating_value"] = nullable(c.Rating.Value.Value)
	}
	if c.Season.Set {
		cols["season"] = nullable(c.Season.Value)
	}
	if c.Episode.Set {
		cols["episode"] = nullable(c.Episode.Value)
	}
	return cols
}

func folderColumns(c *watchlist.FolderChanges) map[string]interface{} {
	cols := make(map[string]interface{})
	if c == nil {
		return cols
	}
	if c.Name.Set {
		cols["name"] = c.Name.Value
	}
	if c.Order.Set {
		cols["position"] = c.Order.Value
	}
	return cols
}

func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
