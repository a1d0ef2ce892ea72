package watchlist

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/trackflix/internal/models"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Helper function to create an unwatched test item
func createTestItem(title string, mediaType models.MediaType, order int, folderID *uuid.UUID) *models.Item {
	return &models.Item{
		ID:        uuid.New(),
		UserID:    "user-1",
		Title:     title,
		Type:      mediaType,
		CreatedAt: testEpoch.Add(time.Duration(order) * time.Minute),
		Order:     order,
		FolderID:  cloneID(folderID),
	}
}

// Helper function to create a watched test item
func createWatchedItem(title string, mediaType models.MediaType, order int, folderID *uuid.UUID) *models.Item {
	item := createTestItem(title, mediaType, order, folderID)
	at := testEpoch.Add(time.Duration(order) * time.Hour)
	item.Watched = true
	item.WatchedAt = &at
	item.Rating = models.RatingNull()
	return item
}

// Helper function to create a test folder
func createTestFolder(name string, order int) *models.Folder {
	return &models.Folder{
		ID:        uuid.New(),
		UserID:    "user-1",
		Name:      name,
		Order:     order,
		CreatedAt: testEpoch,
	}
}

func folderRef(f *models.Folder) *uuid.UUID {
	id := f.ID
	return &id
}

// applyAndGet applies b and returns the resulting copy of item id
func applyAndGet(t *testing.T, s *Snapshot, b *Batch, id uuid.UUID) (*Snapshot, *models.Item) {
	t.Helper()
	next := s.Apply(b)
	item := next.Item(id)
	require.NotNil(t, item)
	return next, item
}

// orders returns the ranks of a partition in rank order
func orders(s *Snapshot, p Partition) []int {
	var out []int
	for _, item := range s.PartitionItems(p) {
		out = append(out, item.Order)
	}
	return out
}

func titles(items []*models.Item) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}
