package watchlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/trackflix/internal/models"
)

func TestCategorize_BucketsByFolder(t *testing.T) {
	noir := createTestFolder("Noir", 1)
	empty := createTestFolder("Empty", 2)
	a := createTestItem("A", models.MediaTypeMovie, 1, nil)
	b := createTestItem("B", models.MediaTypeMovie, 1, folderRef(noir))
	orphan := createTestItem("Orphan", models.MediaTypeMovie, 2, folderRef(createTestFolder("Gone", 3)))

	cats := Categorize([]*models.Item{a, b, orphan}, []*models.Folder{noir, empty})

	assert.Equal(t, []string{"A", "Orphan"}, titles(cats.Standalone))
	assert.Equal(t, []string{"B"}, titles(cats.ByFolder[noir.ID]))
	bucket, ok := cats.ByFolder[empty.ID]
	assert.True(t, ok, "empty folders still get a bucket")
	assert.Empty(t, bucket)
}

func TestViewItems_UnwatchedSortedByOrder(t *testing.T) {
	items := []*models.Item{
		createTestItem("C", models.MediaTypeMovie, 3, nil),
		createTestItem("A", models.MediaTypeMovie, 1, nil),
		createTestItem("S", models.MediaTypeSeries, 2, nil),
		createWatchedItem("W", models.MediaTypeMovie, 1, nil),
	}

	movies := ViewItems(items, ViewOptions{View: ViewMovies})
	assert.Equal(t, []string{"A", "C"}, titles(movies))

	series := ViewItems(items, ViewOptions{View: ViewSeries})
	assert.Equal(t, []string{"S"}, titles(series))
}

func TestViewItems_WatchedSorts(t *testing.T) {
	zulu := createWatchedItem("zulu", models.MediaTypeMovie, 1, nil)
	alpha := createWatchedItem("Alpha", models.MediaTypeSeries, 2, nil)
	emile := createWatchedItem("Émile", models.MediaTypeMovie, 3, nil)
	items := []*models.Item{zulu, alpha, emile}

	tests := []struct {
		name string
		sort WatchedSort
		want []string
	}{
		{"default newest first", "", []string{"Émile", "Alpha", "zulu"}},
		{"watchedAt desc", SortWatchedAtDesc, []string{"Émile", "Alpha", "zulu"}},
		{"watchedAt asc", SortWatchedAtAsc, []string{"zulu", "Alpha", "Émile"}},
		{"title asc", SortTitleAsc, []string{"Alpha", "Émile", "zulu"}},
		{"title desc", SortTitleDesc, []string{"zulu", "Émile", "Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViewItems(items, ViewOptions{View: ViewWatched, Sort: tt.sort})
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestViewItems_WatchedFilter(t *testing.T) {
	items := []*models.Item{
		createWatchedItem("M", models.MediaTypeMovie, 1, nil),
		createWatchedItem("S", models.MediaTypeSeries, 2, nil),
	}

	got := ViewItems(items, ViewOptions{View: ViewWatched, Filter: FilterSeries})
	assert.Equal(t, []string{"S"}, titles(got))

	got = ViewItems(items, ViewOptions{View: ViewWatched, Filter: FilterAll})
	assert.Len(t, got, 2)
}

func TestViewItems_MissingWatchedAtSortsLast(t *testing.T) {
	dated := createWatchedItem("Dated", models.MediaTypeMovie, 1, nil)
	undated := createWatchedItem("Undated", models.MediaTypeMovie, 2, nil)
	undated.WatchedAt = nil

	for _, sort := range []WatchedSort{SortWatchedAtAsc, SortWatchedAtDesc} {
		got := ViewItems([]*models.Item{undated, dated}, ViewOptions{View: ViewWatched, Sort: sort})
		assert.Equal(t, []string{"Dated", "Undated"}, titles(got))
	}
}

func TestVisibleFolders(t *testing.T) {
	movies := createTestFolder("Movies folder", 1)
	shows := createTestFolder("Shows folder", 2)
	mixed := createTestFolder("Mixed", 3)
	seen := createTestFolder("Seen", 4)
	empty := createTestFolder("Empty", 5)

	s := NewSnapshot([]*models.Item{
		createTestItem("M1", models.MediaTypeMovie, 1, folderRef(movies)),
		createTestItem("S1", models.MediaTypeSeries, 1, folderRef(shows)),
		createTestItem("M2", models.MediaTypeMovie, 1, folderRef(mixed)),
		createWatchedItem("W1", models.MediaTypeMovie, 1, folderRef(mixed)),
		createWatchedItem("W2", models.MediaTypeSeries, 1, folderRef(seen)),
		createWatchedItem("W3", models.MediaTypeMovie, 2, folderRef(seen)),
	}, []*models.Folder{movies, shows, mixed, seen, empty})

	names := func(folders []*models.Folder) []string {
		var out []string
		for _, f := range folders {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Mixed", "Movies folder"}, names(VisibleFolders(s, ViewOptions{View: ViewMovies})))
	assert.Equal(t, []string{"Shows folder"}, names(VisibleFolders(s, ViewOptions{View: ViewSeries})))
	assert.Equal(t, []string{"Mixed", "Seen"}, names(VisibleFolders(s, ViewOptions{View: ViewWatched})))
	assert.Equal(t, []string{"Mixed", "Seen"}, names(VisibleFolders(s, ViewOptions{View: ViewWatched, Filter: FilterMovie})))
	assert.Equal(t, []string{"Seen"}, names(VisibleFolders(s, ViewOptions{View: ViewWatched, Filter: FilterSeries})),
		"a sub-filter hides folders holding none of its type")
}

func TestBuildView_MixedFolderShowsEachViewItsItems(t *testing.T) {
	mixed := createTestFolder("Mixed", 1)
	pure := createTestFolder("Pure", 2)
	a := createTestItem("A", models.MediaTypeMovie, 1, nil)
	inMixed := createTestItem("InMixed", models.MediaTypeMovie, 1, folderRef(mixed))
	watchedInMixed := createWatchedItem("WatchedInMixed", models.MediaTypeSeries, 1, folderRef(mixed))
	inPure := createTestItem("InPure", models.MediaTypeMovie, 1, folderRef(pure))
	s := NewSnapshot([]*models.Item{a, inMixed, watchedInMixed, inPure}, []*models.Folder{mixed, pure})

	movies := BuildView(s, ViewOptions{View: ViewMovies})
	assert.Equal(t, []string{"A"}, titles(movies.Standalone))
	require.Len(t, movies.Folders, 2)
	assert.Equal(t, mixed.ID, movies.Folders[0].Folder.ID)
	assert.Equal(t, []string{"InMixed"}, titles(movies.Folders[0].Items))
	assert.Equal(t, []string{"InPure"}, titles(movies.Folders[1].Items))
	assert.Equal(t, 3, movies.Len())

	watched := BuildView(s, ViewOptions{View: ViewWatched, Filter: FilterAll})
	assert.Empty(t, watched.Standalone)
	require.Len(t, watched.Folders, 1)
	assert.Equal(t, []string{"WatchedInMixed"}, titles(watched.Folders[0].Items))

	assert.Empty(t, BuildView(s, ViewOptions{View: ViewSeries}).Folders)
}

func TestBuildView_MarkingOneFolderItemWatchedKeepsBothReachable(t *testing.T) {
	folder := createTestFolder("Noir", 1)
	a := createTestItem("A", models.MediaTypeMovie, 1, folderRef(folder))
	b := createTestItem("B", models.MediaTypeMovie, 2, folderRef(folder))
	s := NewSnapshot([]*models.Item{a, b}, []*models.Folder{folder})

	s = s.Apply(SetWatched(s, a.ID, true, testEpoch))

	reachable := make(map[string]View)
	for _, opts := range []ViewOptions{
		{View: ViewMovies},
		{View: ViewSeries},
		{View: ViewWatched, Filter: FilterAll},
	} {
		view := BuildView(s, opts)
		for _, item := range view.Standalone {
			reachable[item.Title] = opts.View
		}
		for _, f := range view.Folders {
			assert.Equal(t, folder.ID, f.Folder.ID)
			for _, item := range f.Items {
				reachable[item.Title] = opts.View
			}
		}
	}

	assert.Equal(t, map[string]View{"A": ViewWatched, "B": ViewMovies}, reachable)
}

func TestSearchWatched(t *testing.T) {
	matrixFolder := createTestFolder("Matrix saga", 1)
	otherFolder := createTestFolder("Classics", 2)
	m1 := createWatchedItem("The Matrix", models.MediaTypeMovie, 1, folderRef(matrixFolder))
	m2 := createWatchedItem("Matrix Reloaded", models.MediaTypeMovie, 2, folderRef(matrixFolder))
	m3 := createWatchedItem("Matrix Revisited", models.MediaTypeMovie, 3, folderRef(otherFolder))
	loose := createWatchedItem("matrix fan edit", models.MediaTypeMovie, 4, nil)
	other := createWatchedItem("Casablanca", models.MediaTypeMovie, 5, nil)
	unwatched := createTestItem("Matrix 4", models.MediaTypeMovie, 1, nil)
	s := NewSnapshot([]*models.Item{m1, m2, m3, loose, other, unwatched}, []*models.Folder{matrixFolder, otherFolder})

	result := SearchWatched(s, "  MATRIX ", ViewOptions{Sort: SortTitleAsc})

	require.Len(t, result.Folders, 1)
	assert.Equal(t, matrixFolder.ID, result.Folders[0].Folder.ID)
	assert.Equal(t, []string{"Matrix Reloaded", "The Matrix"}, titles(result.Folders[0].Items))
	assert.Equal(t, []string{"matrix fan edit", "Matrix Revisited"}, titles(result.Items))
	assert.Len(t, result.IDs(), 4)

	all := SearchWatched(s, "", ViewOptions{})
	assert.Empty(t, all.Folders)
	assert.Len(t, all.Items, 5)
}

func TestMoveTargets(t *testing.T) {
	movies := createTestFolder("Movies", 1)
	shows := createTestFolder("Shows", 2)
	seen := createTestFolder("Seen movies", 3)
	empty := createTestFolder("Empty", 4)
	s := NewSnapshot([]*models.Item{
		createTestItem("M", models.MediaTypeMovie, 1, folderRef(movies)),
		createTestItem("S", models.MediaTypeSeries, 1, folderRef(shows)),
		createWatchedItem("W", models.MediaTypeSeries, 1, folderRef(seen)),
	}, []*models.Folder{movies, shows, seen, empty})

	names := func(folders []*models.Folder) []string {
		var out []string
		for _, f := range folders {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Empty", "Movies"}, names(MoveTargets(s, false, models.MediaTypeMovie, "")))
	assert.Equal(t, []string{"Empty", "Seen movies"}, names(MoveTargets(s, true, models.MediaTypeMovie, "")))
	assert.Equal(t, []string{"Movies"}, names(MoveTargets(s, false, models.MediaTypeMovie, "mov")))
}

func TestCountItems(t *testing.T) {
	items := []*models.Item{
		createWatchedItem("M", models.MediaTypeMovie, 1, nil),
		createWatchedItem("S", models.MediaTypeSeries, 2, nil),
		createWatchedItem("S2", models.MediaTypeSeries, 3, nil),
		createTestItem("U", models.MediaTypeMovie, 1, nil),
	}

	assert.Equal(t, Counts{Total: 3, Movies: 1, Series: 2}, CountItems(items, ViewOptions{View: ViewWatched}))
}

func TestParseViewOptions(t *testing.T) {
	v, err := ParseView("series")
	require.NoError(t, err)
	assert.Equal(t, ViewSeries, v)

	_, err = ParseView("music")
	assert.ErrorIs(t, err, ErrInvalidView)

	f, err := ParseWatchedFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseWatchedFilter("anime")
	assert.Error(t, err)

	ws, err := ParseWatchedSort("")
	require.NoError(t, err)
	assert.Equal(t, SortWatchedAtDesc, ws)

	_, err = ParseWatchedSort("rating")
	assert.Error(t, err)
}

func TestSortByOrder_BreaksTiesByCreation(t *testing.T) {
	older := createTestItem("Older", models.MediaTypeMovie, 1, nil)
	newer := createTestItem("Newer", models.MediaTypeMovie, 1, nil)
	newer.CreatedAt = older.CreatedAt.Add(time.Second)
	items := []*models.Item{newer, older}

	SortByOrder(items)
	assert.Equal(t, []string{"Older", "Newer"}, titles(items))
}
