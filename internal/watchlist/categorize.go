package watchlist

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// WatchedSort is the comparator the watched view is sorted by
type WatchedSort string

// Watched sorts
const (
	SortWatchedAtDesc WatchedSort = "watchedAt_desc"
	SortWatchedAtAsc  WatchedSort = "watchedAt_asc"
	SortTitleAsc      WatchedSort = "title_asc"
	SortTitleDesc     WatchedSort = "title_desc"
)

// ParseWatchedSort validates a sort name; empty means newest first
func ParseWatchedSort(s string) (WatchedSort, error) {
	switch ws := WatchedSort(s); ws {
	case "":
		return SortWatchedAtDesc, nil
	case SortWatchedAtDesc, SortWatchedAtAsc, SortTitleAsc, SortTitleDesc:
		return ws, nil
	}
	return "", fmt.Errorf("unknown watched sort %q", s)
}

// Categories splits items into standalone items and per-folder buckets
type Categories struct {
	Standalone []*models.Item
	ByFolder   map[uuid.UUID][]*models.Item
}

// Categorize buckets items by folder. Every folder gets a bucket, empty ones
// included; items pointing at an unknown folder count as standalone.
func Categorize(items []*models.Item, folders []*models.Folder) Categories {
	c := Categories{ByFolder: make(map[uuid.UUID][]*models.Item, len(folders))}
	for _, folder := range folders {
		c.ByFolder[folder.ID] = []*models.Item{}
	}
	for _, item := range items {
		if item.FolderID != nil {
			if bucket, ok := c.ByFolder[*item.FolderID]; ok {
				c.ByFolder[*item.FolderID] = append(bucket, item)
				continue
			}
		}
		c.Standalone = append(c.Standalone, item)
	}
	return c
}

// ViewOptions selects and sorts one view
type ViewOptions struct {
	View   View
	Filter WatchedFilter
	Sort   WatchedSort
}

// Matches reports whether item satisfies the view predicate
func (o ViewOptions) Matches(item *models.Item) bool {
	if o.View.IsWatched() {
		return item.Watched && o.Filter.Matches(item)
	}
	return !item.Watched && item.Type == o.View.MediaType()
}

// ViewItems returns the items listed by the view, sorted
func ViewItems(items []*models.Item, opts ViewOptions) []*models.Item {
	var out []*models.Item
	for _, item := range items {
		if opts.Matches(item) {
			out = append(out, item)
		}
	}
	SortItems(out, opts)
	return out
}

// SortItems sorts items the way the view lists them: unwatched views by rank,
// the watched view by the chosen comparator
func SortItems(items []*models.Item, opts ViewOptions) {
	if !opts.View.IsWatched() {
		SortByOrder(items)
		return
	}

	switch opts.Sort {
	case SortTitleAsc, SortTitleDesc:
		col := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
		desc := opts.Sort == SortTitleDesc
		sort.SliceStable(items, func(i, j int) bool {
			cmp := col.CompareString(items[i].Title, items[j].Title)
			if cmp == 0 {
				return items[i].Order < items[j].Order
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	default:
		asc := opts.Sort == SortWatchedAtAsc
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].WatchedAt, items[j].WatchedAt
			switch {
			case a == nil && b == nil:
				return items[i].Order < items[j].Order
			case a == nil:
				return false
			case b == nil:
				return true
			case a.Equal(*b):
				return items[i].Order < items[j].Order
			case asc:
				return a.Before(*b)
			default:
				return a.After(*b)
			}
		})
	}
}

// VisibleFolders returns the folders shown in a view, sorted by name. A folder
// is shown when it holds at least one item the view lists; items of other
// views sharing the folder do not hide it, so a folder mixing watched and
// unwatched items shows each view its own subset.
func VisibleFolders(s *Snapshot, opts ViewOptions) []*models.Folder {
	return visibleFolders(Categorize(ViewItems(s.Items, opts), s.Folders), s.Folders, opts)
}

func visibleFolders(cats Categories, folders []*models.Folder, opts ViewOptions) []*models.Folder {
	var out []*models.Folder
	for _, folder := range folders {
		if folderVisible(cats.ByFolder[folder.ID], opts) {
			out = append(out, folder)
		}
	}
	SortFoldersByName(out)
	return out
}

func folderVisible(contents []*models.Item, opts ViewOptions) bool {
	if len(contents) == 0 {
		return false
	}
	for _, item := range contents {
		if !opts.Matches(item) {
			return false
		}
	}
	return true
}

// FolderView is a visible folder with its sorted contents
type FolderView struct {
	Folder *models.Folder
	Items  []*models.Item
}

// ViewResult is the categorized content of one view
type ViewResult struct {
	Options    ViewOptions
	Standalone []*models.Item
	Folders    []FolderView
}

// Len returns the number of items the view lists
func (r *ViewResult) Len() int {
	n := len(r.Standalone)
	for _, f := range r.Folders {
		n += len(f.Items)
	}
	return n
}

// BuildView categorizes the items of a view. Every item the view lists is
// reachable, either standalone or inside a visible folder.
func BuildView(s *Snapshot, opts ViewOptions) *ViewResult {
	cats := Categorize(ViewItems(s.Items, opts), s.Folders)

	result := &ViewResult{Options: opts, Standalone: cats.Standalone}
	for _, folder := range visibleFolders(cats, s.Folders, opts) {
		result.Folders = append(result.Folders, FolderView{
			Folder: folder,
			Items:  cats.ByFolder[folder.ID],
		})
	}
	return result
}
