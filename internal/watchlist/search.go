package watchlist

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// SearchResult holds the folders and items a watched-list search matched
type SearchResult struct {
	Term    string
	Folders []FolderView
	Items   []*models.Item
}

// IDs returns every item id the result covers: the matched items plus the
// full contents of the matched folders
func (r *SearchResult) IDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, item := range r.Items {
		ids = append(ids, item.ID)
	}
	for _, f := range r.Folders {
		for _, item := range f.Items {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// SearchWatched matches term, case-insensitively, against watched titles and
// folder names. A folder matches when its name contains the term and it holds
// watched items passing the filter; items of a matched folder are reported
// under the folder rather than repeated in Items. A blank term returns the
// whole watched list as Items.
func SearchWatched(s *Snapshot, term string, opts ViewOptions) *SearchResult {
	opts.View = ViewWatched
	term = strings.TrimSpace(term)
	watched := ViewItems(s.Items, opts)

	result := &SearchResult{Term: term}
	if term == "" {
		result.Items = watched
		return result
	}

	needle := strings.ToLower(term)
	cats := Categorize(watched, s.Folders)
	matched := make(map[uuid.UUID]bool)

	folders := make([]*models.Folder, 0, len(s.Folders))
	folders = append(folders, s.Folders...)
	SortFoldersByName(folders)
	for _, folder := range folders {
		contents := cats.ByFolder[folder.ID]
		if len(contents) == 0 || !strings.Contains(strings.ToLower(folder.Name), needle) {
			continue
		}
		matched[folder.ID] = true
		result.Folders = append(result.Folders, FolderView{Folder: folder, Items: contents})
	}

	for _, item := range watched {
		if !strings.Contains(strings.ToLower(item.Title), needle) {
			continue
		}
		if item.FolderID != nil && matched[*item.FolderID] {
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result
}

// MoveTargets returns the folders an item of the given kind may be moved into,
// sorted by name and narrowed to names containing term. Empty folders always
// qualify. A watched item may join folders holding only watched items; an
// unwatched item may join folders holding only unwatched items of its type.
func MoveTargets(s *Snapshot, watched bool, t models.MediaType, term string) []*models.Folder {
	needle := strings.ToLower(strings.TrimSpace(term))
	cats := Categorize(s.Items, s.Folders)

	var out []*models.Folder
	for _, folder := range s.Folders {
		if needle != "" && !strings.Contains(strings.ToLower(folder.Name), needle) {
			continue
		}
		fits := true
		for _, item := range cats.ByFolder[folder.ID] {
			if watched && !item.Watched || !watched && (item.Watched || item.Type != t) {
				fits = false
				break
			}
		}
		if fits {
			out = append(out, folder)
		}
	}
	SortFoldersByName(out)
	return out
}

// Counts tallies watched items by type
type Counts struct {
	Total  int `json:"total"`
	Movies int `json:"movies"`
	Series int `json:"series"`
}

// CountItems tallies items matching the view predicate by type
func CountItems(items []*models.Item, opts ViewOptions) Counts {
	var c Counts
	for _, item := range items {
		if !opts.Matches(item) {
			continue
		}
		c.Total++
		if item.Type == models.MediaTypeSeries {
			c.Series++
		} else {
			c.Movies++
		}
	}
	return c
}
