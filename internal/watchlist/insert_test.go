package watchlist

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/trackflix/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func TestPlanAdd_AppendsWithoutRenumbering(t *testing.T) {
	a := createTestItem("A", models.MediaTypeMovie, 2, nil)
	b := createTestItem("B", models.MediaTypeMovie, 7, nil)
	s := NewSnapshot([]*models.Item{a, b}, nil)

	item, batch, err := PlanAdd(s, "user-1", NewItem{Title: "  Heat ", Type: models.MediaTypeMovie}, testEpoch)
	require.NoError(t, err)

	assert.Equal(t, "Heat", item.Title)
	assert.Equal(t, 8, item.Order)
	assert.False(t, item.Watched)
	assert.Nil(t, item.WatchedAt)
	assert.True(t, item.Rating.IsUnset())
	assert.Equal(t, 1, batch.Len())
	assert.Equal(t, OpSet, batch.Mutations()[0].Op)
}

func TestPlanAdd_Watched(t *testing.T) {
	s := NewSnapshot([]*models.Item{createWatchedItem("W", models.MediaTypeSeries, 3, nil)}, nil)

	item, _, err := PlanAdd(s, "user-1", NewItem{Title: "Heat", Type: models.MediaTypeMovie, Watched: true}, testEpoch)
	require.NoError(t, err)

	assert.Equal(t, 4, item.Order, "watched partition ignores type")
	require.NotNil(t, item.WatchedAt)
	assert.True(t, item.WatchedAt.Equal(testEpoch))
	assert.True(t, item.Rating.IsNull())

	rated, _, err := PlanAdd(s, "user-1", NewItem{Title: "Heat", Type: models.MediaTypeMovie, Watched: true, Rating: models.RatingOf(7.5)}, testEpoch)
	require.NoError(t, err)
	assert.Equal(t, 7.5, rated.Rating.Float())
}

func TestPlanAdd_Validation(t *testing.T) {
	s := NewSnapshot(nil, nil)

	tests := []struct {
		name string
		in   NewItem
		want error
	}{
		{"empty title", NewItem{Title: "   ", Type: models.MediaTypeMovie}, ErrEmptyTitle},
		{"bad type", NewItem{Title: "x", Type: "music"}, ErrInvalidType},
		{"rating unwatched", NewItem{Title: "x", Type: models.MediaTypeMovie, Rating: models.RatingOf(5)}, ErrRatingRequiresWatched},
		{"rating high", NewItem{Title: "x", Type: models.MediaTypeMovie, Watched: true, Rating: models.RatingOf(11)}, ErrInvalidRating},
		{"rating negative", NewItem{Title: "x", Type: models.MediaTypeMovie, Watched: true, Rating: models.RatingOf(-1)}, ErrInvalidRating},
		{"episode on movie", NewItem{Title: "x", Type: models.MediaTypeMovie, Season: intPtr(1)}, ErrEpisodeRequiresSeries},
		{"zero episode", NewItem{Title: "x", Type: models.MediaTypeSeries, Episode: intPtr(0)}, ErrInvalidEpisode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, batch, err := PlanAdd(s, "user-1", tt.in, testEpoch)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			assert.Nil(t, batch)
		})
	}
}

func TestPlanQuickAdd(t *testing.T) {
	s := NewSnapshot([]*models.Item{createWatchedItem("W", models.MediaTypeMovie, 2, nil)}, nil)

	added, batch, err := PlanQuickAdd(s, "user-1", []QuickAddEntry{
		{Title: "Heat", Type: models.MediaTypeMovie},
		{Title: "   ", Type: models.MediaTypeMovie},
		{Title: "Dark", Type: models.MediaTypeSeries},
	}, nil, testEpoch)
	require.NoError(t, err)

	require.Len(t, added, 2)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 3, added[0].Order)
	assert.Equal(t, 4, added[1].Order)
	for _, item := range added {
		assert.True(t, item.Watched)
		assert.NotNil(t, item.WatchedAt)
		assert.True(t, item.Rating.IsNull())
		assert.Nil(t, item.FolderID)
	}
}

func TestPlanQuickAdd_NothingToAdd(t *testing.T) {
	_, _, err := PlanQuickAdd(NewSnapshot(nil, nil), "user-1", []QuickAddEntry{{Title: " "}}, nil, testEpoch)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestPlanQuickAdd_IntoFolder(t *testing.T) {
	folder := createTestFolder("Seen", 1)
	s := NewSnapshot([]*models.Item{
		createWatchedItem("Standalone", models.MediaTypeMovie, 5, nil),
		createWatchedItem("Filed", models.MediaTypeSeries, 1, folderRef(folder)),
	}, []*models.Folder{folder})

	added, batch, err := PlanQuickAdd(s, "user-1", []QuickAddEntry{
		{Title: "Heat", Type: models.MediaTypeMovie},
		{Title: "Dark", Type: models.MediaTypeSeries},
	}, folderRef(folder), testEpoch)
	require.NoError(t, err)
	require.Len(t, added, 2)

	next := s.Apply(batch)
	assert.Equal(t, []int{1, 2, 3}, orders(next, WatchedPartition(folderRef(folder))))
	for _, item := range added {
		require.NotNil(t, item.FolderID)
		assert.Equal(t, folder.ID, *item.FolderID)
	}

	missing := uuid.New()
	_, _, err = PlanQuickAdd(s, "user-1", []QuickAddEntry{{Title: "Heat", Type: models.MediaTypeMovie}}, &missing, testEpoch)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestPlanImport_DedupesAndAppends(t *testing.T) {
	folder := createTestFolder("Seen", 1)
	existing := createWatchedItem("The Matrix", models.MediaTypeMovie, 3, nil)
	s := NewSnapshot([]*models.Item{existing}, []*models.Folder{folder})
	missing := uuid.New()
	watchedAt := testEpoch.Add(-24 * time.Hour)

	drafts := []*models.Item{
		{Title: "Matrix, The", Type: models.MediaTypeMovie},
		{Title: "Heat", Type: models.MediaTypeMovie, WatchedAt: &watchedAt, Rating: models.RatingOf(8)},
		{Title: "heat", Type: models.MediaTypeMovie},
		{Title: "Dark", Type: models.MediaTypeSeries, FolderID: folderRef(folder), Season: intPtr(2)},
		{Title: "Lost", Type: "anime", FolderID: &missing, Season: intPtr(1)},
		{Title: "  "},
	}

	added, skipped, batch := PlanImport(s, "user-2", drafts, testEpoch)

	require.Len(t, added, 3)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, 3, batch.Len())

	heat, dark, lost := added[0], added[1], added[2]
	assert.Equal(t, "user-2", heat.UserID)
	assert.Equal(t, 4, heat.Order)
	assert.True(t, heat.WatchedAt.Equal(watchedAt))
	assert.Equal(t, 8.0, heat.Rating.Float())

	require.NotNil(t, dark.FolderID)
	assert.Equal(t, folder.ID, *dark.FolderID)
	assert.Equal(t, 1, dark.Order)
	assert.Equal(t, 2, *dark.Season)

	assert.Nil(t, lost.FolderID, "unknown folders fall back to standalone")
	assert.Equal(t, models.MediaTypeMovie, lost.Type)
	assert.Nil(t, lost.Season)
	assert.Equal(t, 5, lost.Order)
	assert.True(t, lost.Rating.IsNull())

	for _, item := range added {
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.True(t, item.Watched)
	}
}

func TestPlanEdit_Fields(t *testing.T) {
	w := createWatchedItem("Heat", models.MediaTypeSeries, 1, nil)
	s := NewSnapshot([]*models.Item{w}, nil)
	notes := "great"

	batch, err := PlanEdit(s, w.ID, ItemEdit{
		Title:   Some("Heat (1995)"),
		Notes:   Some(&notes),
		Rating:  Some(models.RatingOf(9)),
		Season:  Some(intPtr(2)),
		Episode: Some(intPtr(5)),
		IsD21:   Some(true),
	})
	require.NoError(t, err)
	_, item := applyAndGet(t, s, batch, w.ID)

	assert.Equal(t, "Heat (1995)", item.Title)
	assert.Equal(t, "great", *item.Notes)
	assert.Equal(t, 9.0, item.Rating.Float())
	assert.Equal(t, 2, *item.Season)
	assert.Equal(t, 5, *item.Episode)
	assert.True(t, item.IsD21)
}

func TestPlanEdit_ClearRating(t *testing.T) {
	w := createWatchedItem("Heat", models.MediaTypeMovie, 1, nil)
	w.Rating = models.RatingOf(4)
	s := NewSnapshot([]*models.Item{w}, nil)

	batch, err := PlanEdit(s, w.ID, ItemEdit{Rating: Some(models.RatingNull())})
	require.NoError(t, err)
	_, item := applyAndGet(t, s, batch, w.ID)

	assert.True(t, item.Rating.IsNull())
}

func TestPlanEdit_Validation(t *testing.T) {
	u := createTestItem("Heat", models.MediaTypeMovie, 1, nil)
	s := NewSnapshot([]*models.Item{u}, nil)

	_, err := PlanEdit(s, u.ID, ItemEdit{Rating: Some(models.RatingOf(5))})
	assert.ErrorIs(t, err, ErrRatingRequiresWatched)

	_, err = PlanEdit(s, u.ID, ItemEdit{Rating: Some(models.RatingNull())})
	assert.ErrorIs(t, err, ErrRatingRequiresWatched, "an explicit null is still a rating field")

	batch, err := PlanEdit(s, u.ID, ItemEdit{Rating: Some(models.RatingUnset())})
	require.NoError(t, err)
	assert.True(t, batch.Empty())

	_, err = PlanEdit(s, u.ID, ItemEdit{Title: Some(" ")})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = PlanEdit(s, u.ID, ItemEdit{Season: Some(intPtr(1))})
	assert.ErrorIs(t, err, ErrEpisodeRequiresSeries)

	_, err = PlanEdit(s, uuid.New(), ItemEdit{})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPlanEdit_TypeChangeMovesPartition(t *testing.T) {
	folder := createTestFolder("Noir", 1)
	a := createTestItem("A", models.MediaTypeSeries, 1, folderRef(folder))
	b := createTestItem("B", models.MediaTypeSeries, 2, folderRef(folder))
	b.Season = intPtr(3)
	c := createTestItem("C", models.MediaTypeSeries, 3, folderRef(folder))
	m := createTestItem("M", models.MediaTypeMovie, 4, nil)
	s := NewSnapshot([]*models.Item{a, b, c, m}, []*models.Folder{folder})

	batch, err := PlanEdit(s, b.ID, ItemEdit{Type: Some(models.MediaTypeMovie)})
	require.NoError(t, err)
	next, item := applyAndGet(t, s, batch, b.ID)

	assert.Equal(t, models.MediaTypeMovie, item.Type)
	assert.Nil(t, item.FolderID)
	assert.Nil(t, item.Season, "movies carry no season")
	assert.Equal(t, 5, item.Order)
	assert.Equal(t, []string{"A", "C"}, titles(next.PartitionItems(UnwatchedPartition(models.MediaTypeSeries, folderRef(folder)))))
	assert.Equal(t, []int{1, 2}, orders(next, UnwatchedPartition(models.MediaTypeSeries, folderRef(folder))))
	assertFolderPure(t, next, folder.ID)
}

func TestPlanEdit_WatchedTypeChangeKeepsPlace(t *testing.T) {
	folder := createTestFolder("Seen", 1)
	w := createWatchedItem("W", models.MediaTypeMovie, 2, folderRef(folder))
	s := NewSnapshot([]*models.Item{w}, []*models.Folder{folder})

	batch, err := PlanEdit(s, w.ID, ItemEdit{Type: Some(models.MediaTypeSeries)})
	require.NoError(t, err)
	_, item := applyAndGet(t, s, batch, w.ID)

	assert.Equal(t, models.MediaTypeSeries, item.Type)
	require.NotNil(t, item.FolderID)
	assert.Equal(t, 2, item.Order)
}

func TestPlanEdit_NoChanges(t *testing.T) {
	u := createTestItem("Heat", models.MediaTypeMovie, 1, nil)
	s := NewSnapshot([]*models.Item{u}, nil)

	batch, err := PlanEdit(s, u.ID, ItemEdit{Title: Some("Heat")})
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}
