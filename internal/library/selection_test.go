package library

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

func TestSelection_ToggleAndSelectAll(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	a := addItem(t, service, "A", models.MediaTypeMovie, false)
	b := addItem(t, service, "B", models.MediaTypeMovie, false)
	c := addItem(t, service, "C", models.MediaTypeMovie, false)
	q := ViewQuery{View: watchlist.ViewMovies, PerPage: 2}

	state, err := service.ToggleSelection(ctx, testUser, q, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, state.IDs)
	assert.False(t, state.AllSelected)

	// page 1 shows A and B; C stays selected
	state, err = service.SelectAll(ctx, testUser, q, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, state.IDs)
	assert.True(t, state.AllSelected)

	state, err = service.SelectAll(ctx, testUser, q, false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, state.IDs)

	_, err = service.ToggleSelection(ctx, testUser, q, uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestSelection_SelectAllFollowsSearch(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	alien := addItem(t, service, "Alien", models.MediaTypeMovie, true)
	zodiac := addItem(t, service, "Zodiac", models.MediaTypeMovie, true)
	q := ViewQuery{View: watchlist.ViewWatched, Search: "alien"}

	page, err := service.View(ctx, testUser, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien"}, standaloneTitles(page))

	state, err := service.SelectAll(ctx, testUser, q, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alien.ID}, state.IDs)
	assert.NotContains(t, state.IDs, zodiac.ID)
	assert.True(t, state.AllSelected)

	state, err = service.SelectAll(ctx, testUser, ViewQuery{View: watchlist.ViewWatched}, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{alien.ID, zodiac.ID}, state.IDs)
}

func TestSelection_SelectAllInFolder(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	folder := createFolder(t, service, "Noir")
	a := addItem(t, service, "A", models.MediaTypeMovie, false)
	b := addItem(t, service, "B", models.MediaTypeMovie, false)
	c := addItem(t, service, "C", models.MediaTypeMovie, false)
	_, err := service.BulkMove(ctx, testUser, []uuid.UUID{a.ID, b.ID}, &folder.ID, watchlist.ViewMovies)
	require.NoError(t, err)

	q := ViewQuery{View: watchlist.ViewMovies, Folder: &folder.ID}
	state, err := service.SelectAll(ctx, testUser, q, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, state.IDs)
	assert.NotContains(t, state.IDs, c.ID)
	assert.True(t, state.AllSelected)

	state, err = service.SelectAll(ctx, testUser, q, false)
	require.NoError(t, err)
	assert.Empty(t, state.IDs)

	missing := uuid.New()
	_, err = service.SelectAll(ctx, testUser, ViewQuery{View: watchlist.ViewMovies, Folder: &missing}, true)
	assert.True(t, IsNotFound(err))
}

func TestSelection_ClearedOnScopeChange(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	a := addItem(t, service, "A", models.MediaTypeMovie, false)
	q := ViewQuery{View: watchlist.ViewMovies, PerPage: 10}

	_, err := service.ToggleSelection(ctx, testUser, q, a.ID)
	require.NoError(t, err)

	state, err := service.Selection(ctx, testUser, ViewQuery{View: watchlist.ViewMovies, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)

	_, err = service.ToggleSelection(ctx, testUser, q, a.ID)
	require.NoError(t, err)
	state, err = service.Selection(ctx, testUser, ViewQuery{View: watchlist.ViewSeries, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)
}

func TestSelection_DropsDeletedItems(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	a := addItem(t, service, "A", models.MediaTypeMovie, false)
	b := addItem(t, service, "B", models.MediaTypeMovie, false)
	q := ViewQuery{View: watchlist.ViewMovies}

	_, err := service.SelectAll(ctx, testUser, q, true)
	require.NoError(t, err)
	_, err = service.DeleteItem(ctx, testUser, a.ID)
	require.NoError(t, err)

	state, err := service.Selection(ctx, testUser, q)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, state.IDs)
}

func TestSelection_MoveAndDelete(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	folder := createFolder(t, service, "Picked")
	a := addItem(t, service, "A", models.MediaTypeMovie, false)
	b := addItem(t, service, "B", models.MediaTypeMovie, false)
	addItem(t, service, "C", models.MediaTypeMovie, false)
	q := ViewQuery{View: watchlist.ViewMovies}

	_, err := service.MoveSelection(ctx, testUser, q, &folder.ID)
	assert.True(t, IsEmptySelection(err))

	for _, id := range []uuid.UUID{b.ID, a.ID} {
		_, err = service.ToggleSelection(ctx, testUser, q, id)
		require.NoError(t, err)
	}

	result, err := service.MoveSelection(ctx, testUser, q, &folder.ID)
	require.NoError(t, err)
	assert.Positive(t, result.Applied)

	state, err := service.Selection(ctx, testUser, q)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)

	assert.Equal(t, []int{1, 2}, partitionOrders(t, service, watchlist.UnwatchedPartition(models.MediaTypeMovie, &folder.ID)))
	assert.Equal(t, []int{1}, partitionOrders(t, service, watchlist.UnwatchedPartition(models.MediaTypeMovie, nil)))

	_, err = service.ToggleSelection(ctx, testUser, q, a.ID)
	require.NoError(t, err)
	result, err = service.DeleteSelection(ctx, testUser, q)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	items, err := service.ListItems(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
