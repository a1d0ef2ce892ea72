// Package watchlist is the ordering engine behind a user's watchlist: it
// classifies items into partitions, keeps each partition's rank dense, plans
// moves between partitions and derives the categorized views the API serves.
//
// Every function here is pure. Callers hand in a Snapshot of the store and get
// back either derived data or a Batch of mutations to commit atomically.
package watchlist

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// View is one of the three list tabs
type View string

// Views
const (
	ViewMovies  View = "movies"
	ViewSeries  View = "series"
	ViewWatched View = "watched"
)

// ParseView validates a view name
func ParseView(s string) (View, error) {
	v := View(s)
	switch v {
	case ViewMovies, ViewSeries, ViewWatched:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

// IsWatched reports whether the view lists watched items
func (v View) IsWatched() bool {
	return v == ViewWatched
}

// MediaType returns the item type an unwatched view lists ("" for watched)
func (v View) MediaType() models.MediaType {
	switch v {
	case ViewMovies:
		return models.MediaTypeMovie
	case ViewSeries:
		return models.MediaTypeSeries
	}
	return ""
}

// ViewFor returns the view an item is listed under
func ViewFor(item *models.Item) View {
	if item.Watched {
		return ViewWatched
	}
	if item.Type == models.MediaTypeSeries {
		return ViewSeries
	}
	return ViewMovies
}

// WatchedFilter narrows the watched view by type
type WatchedFilter string

// Watched filters
const (
	FilterAll    WatchedFilter = "all"
	FilterMovie  WatchedFilter = "movie"
	FilterSeries WatchedFilter = "series"
)

// ParseWatchedFilter validates a filter name; empty means all
func ParseWatchedFilter(s string) (WatchedFilter, error) {
	switch f := WatchedFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterMovie, FilterSeries:
		return f, nil
	}
	return "", fmt.Errorf("unknown watched filter %q (must be all, movie or series)", s)
}

// Matches reports whether item passes the filter
func (f WatchedFilter) Matches(item *models.Item) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return string(item.Type) == string(f)
}

// Partition scopes rank uniqueness. Watched partitions ignore type: watched
// items of both types share one rank sequence per folder.
type Partition struct {
	Watched  bool
	Type     models.MediaType
	FolderID uuid.UUID // uuid.Nil for standalone
}

// PartitionOf returns the partition item belongs to
func PartitionOf(item *models.Item) Partition {
	return partitionFor(item.Watched, item.Type, item.FolderID)
}

// UnwatchedPartition returns the unwatched partition for a type and folder
func UnwatchedPartition(t models.MediaType, folderID *uuid.UUID) Partition {
	return partitionFor(false, t, folderID)
}

// WatchedPartition returns the watched partition for a folder
func WatchedPartition(folderID *uuid.UUID) Partition {
	return partitionFor(true, "", folderID)
}

func partitionFor(watched bool, t models.MediaType, folderID *uuid.UUID) Partition {
	p := Partition{Watched: watched}
	if !watched {
		p.Type = t
	}
	if folderID != nil {
		p.FolderID = *folderID
	}
	return p
}

// Standalone reports whether the partition is outside any folder
func (p Partition) Standalone() bool {
	return p.FolderID == uuid.Nil
}

// Folder returns the folder id, nil for standalone
func (p Partition) Folder() *uuid.UUID {
	if p.Standalone() {
		return nil
	}
	id := p.FolderID
	return &id
}

// Contains reports whether item belongs to the partition
func (p Partition) Contains(item *models.Item) bool {
	return PartitionOf(item) == p
}

// WithFolder returns the same partition relocated to folderID
func (p Partition) WithFolder(folderID *uuid.UUID) Partition {
	return partitionFor(p.Watched, p.Type, folderID)
}

// String renders the partition for logs
func (p Partition) String() string {
	folder := "standalone"
	if !p.Standalone() {
		folder = p.FolderID.String()
	}
	if p.Watched {
		return "watched/" + folder
	}
	return "unwatched/" + string(p.Type) + "/" + folder
}
