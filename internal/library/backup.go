package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// Timestamp is a backup time. It is written as RFC 3339 and read from RFC 3339
// strings, epoch milliseconds or {"seconds", "nanoseconds"} objects.
type Timestamp struct {
	time.Time
}

// MarshalJSON writes the time as RFC 3339 in UTC
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts the three timestamp encodings backups have used
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			// numeric strings are epoch millis
			ms, numErr := strconv.ParseInt(s, 10, 64)
			if numErr != nil {
				return fmt.Errorf("invalid timestamp %q: %w", s, err)
			}
			parsed = time.UnixMilli(ms)
		}
		t.Time = parsed.UTC()
	case '{':
		var parts struct {
			Seconds     int64 `json:"seconds"`
			Nanoseconds int64 `json:"nanoseconds"`
		}
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid timestamp object: %w", err)
		}
		t.Time = time.Unix(parts.Seconds, parts.Nanoseconds).UTC()
	default:
		var ms float64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

// BackupItem is one watched item in a backup file. Ids and owners are not
// exported; an import assigns fresh ones.
type BackupItem struct {
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Watched   bool       `json:"watched"`
	WatchedAt *Timestamp `json:"watchedAt,omitempty"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	Order     int        `json:"order"`
	FolderID  *string    `json:"folderId"`
	IsD21     bool       `json:"isD21"`
	Notes     *string    `json:"notes,omitempty"`
	Rating    *float64   `json:"rating"`
	Season    *int       `json:"season,omitempty"`
	Episode   *int       `json:"episode,omitempty"`
}

// ImportResult reports the outcome of an import
type ImportResult struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Revision uint64 `json:"revision"`
}

func backupItemFrom(item *models.Item) BackupItem {
	b := BackupItem{
		Title:     item.Title,
		Type:      string(item.Type),
		Watched:   item.Watched,
		CreatedAt: &Timestamp{Time: item.CreatedAt},
		Order:     item.Order,
		IsD21:     item.IsD21,
		Notes:     item.Notes,
		Rating:    item.Rating.Value,
		Season:    item.Season,
		Episode:   item.Episode,
	}
	if item.WatchedAt != nil {
		b.WatchedAt = &Timestamp{Time: *item.WatchedAt}
	}
	if item.FolderID != nil {
		id := item.FolderID.String()
		b.FolderID = &id
	}
	return b
}

// draft converts a backup entry into an item for PlanImport
func (b BackupItem) draft() *models.Item {
	item := &models.Item{
		Title:   b.Title,
		Type:    models.MediaType(b.Type),
		IsD21:   b.IsD21,
		Notes:   b.Notes,
		Season:  b.Season,
		Episode: b.Episode,
	}
	if b.WatchedAt != nil && !b.WatchedAt.IsZero() {
		at := b.WatchedAt.Time
		item.WatchedAt = &at
	}
	if b.CreatedAt != nil {
		item.CreatedAt = b.CreatedAt.Time
	}
	if b.FolderID != nil {
		if id, err := uuid.Parse(*b.FolderID); err == nil {
			item.FolderID = &id
		}
	}
	if b.Rating != nil {
		item.Rating = models.RatingOf(*b.Rating)
	}
	if item.Season != nil && *item.Season < 1 {
		item.Season = nil
	}
	if item.Episode != nil && *item.Episode < 1 {
		item.Episode = nil
	}
	return item
}

// ExportWatched returns the user's watched list in backup form, in list order
func (s *Service) ExportWatched(ctx context.Context, userID string) ([]BackupItem, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	watched := watchlist.ViewItems(snap.Items, watchlist.ViewOptions{
		View:   watchlist.ViewWatched,
		Filter: watchlist.FilterAll,
		Sort:   s.opts.DefaultWatchedSort,
	})

	out := make([]BackupItem, 0, len(watched))
	for _, item := range watched {
		out = append(out, backupItemFrom(item))
	}

	logger.Log.Debug().
		Str("user_id", userID).
		Int("count", len(out)).
		Msg("Exported watched list")

	return out, nil
}

// ParseBackup decodes a backup file
func ParseBackup(data []byte) ([]BackupItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidBackup
	}
	var items []BackupItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return items, nil
}

// ImportWatched restores backup entries into the watched list. Entries whose
// normalized title is already watched are skipped.
func (s *Service) ImportWatched(ctx context.Context, userID string, entries []BackupItem) (ImportResult, error) {
	drafts := make([]*models.Item, 0, len(entries))
	for _, entry := range entries {
		drafts = append(drafts, entry.draft())
	}

	var imported, skipped int
	result, err := s.mutate(ctx, userID, "import watched items", func(snap *watchlist.Snapshot) (*watchlist.Batch, error) {
		added, n, batch := watchlist.PlanImport(snap, userID, drafts, s.now())
		imported, skipped = len(added), n
		return batch, nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	logger.Log.Info().
		Str("user_id", userID).
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("Imported watched list")

	return ImportResult{Imported: imported, Skipped: skipped, Revision: result.Revision}, nil
}
