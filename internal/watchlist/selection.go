package watchlist

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// SelectionScope is the view state a selection belongs to. Changing the tab or
// the page size clears the selection.
type SelectionScope struct {
	View    View `json:"view"`
	PerPage int  `json:"per_page"`
}

// Selection is the set of items chosen for a bulk operation, kept in the order
// they were picked. It is not safe for concurrent use.
type Selection struct {
	scope SelectionScope
	ids   []uuid.UUID
	index map[uuid.UUID]int
}

// NewSelection returns an empty selection for scope
func NewSelection(scope SelectionScope) *Selection {
	return &Selection{scope: scope, index: make(map[uuid.UUID]int)}
}

// Scope returns the view state the selection belongs to
func (s *Selection) Scope() SelectionScope {
	return s.scope
}

// Rescope moves the selection to scope, clearing it when the scope changed.
// It reports whether the selection was cleared.
func (s *Selection) Rescope(scope SelectionScope) bool {
	if scope == s.scope {
		return false
	}
	s.scope = scope
	s.Clear()
	return true
}

// Toggle flips membership of id and reports whether it is now selected
func (s *Selection) Toggle(id uuid.UUID) bool {
	if s.Contains(id) {
		s.remove(id)
		return false
	}
	s.add(id)
	return true
}

// SelectAll adds (checked) or removes (!checked) exactly the visible ids,
// leaving selections outside the visible set untouched
func (s *Selection) SelectAll(visible []uuid.UUID, checked bool) {
	for _, id := range visible {
		if checked {
			s.add(id)
		} else {
			s.remove(id)
		}
	}
}

// IsAllSelected reports whether visible is non-empty and fully selected
func (s *Selection) IsAllSelected(visible []uuid.UUID) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Contains reports whether id is selected
func (s *Selection) Contains(id uuid.UUID) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the selected ids in pick order
func (s *Selection) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected ids
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[uuid.UUID]int)
}

// Retain drops ids that no longer exist in snap, e.g. after a concurrent delete
func (s *Selection) Retain(snap *Snapshot) {
	kept := s.ids[:0]
	s.index = make(map[uuid.UUID]int, len(s.ids))
	for _, id := range s.ids {
		if snap.Item(id) != nil {
			s.index[id] = len(kept)
			kept = append(kept, id)
		}
	}
	s.ids = kept
}

func (s *Selection) add(id uuid.UUID) {
	if s.index == nil {
		s.index = make(map[uuid.UUID]int)
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

func (s *Selection) remove(id uuid.UUID) {
	pos, ok := s.index[id]
	if !ok {
		return
	}
	s.ids = append(s.ids[:pos], s.ids[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.ids); i++ {
		s.index[s.ids[i]] = i
	}
}

// Page returns the 1-based page of list. Out of range pages are empty and a
// non-positive perPage returns the whole list.
func Page[T any](list []T, page, perPage int) []T {
	if perPage <= 0 {
		return list
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return []T{}
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// PageCount returns how many pages of perPage a list of n spans
func PageCount(n, perPage int) int {
	if perPage <= 0 || n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// SelectTarget is the part of a view a select-all checkbox covers
type SelectTarget struct {
	Page    int
	PerPage int
	// Search covers every result of a watched-list search, matched folders'
	// contents included. Ignored outside the watched view.
	Search string
	// Folder covers the items the view lists inside one folder
	Folder *uuid.UUID
}

// VisibleIDs returns the ids SelectAll acts on for target: one folder's items
// when a folder is given, every search result while searching, otherwise the
// standalone items on one page.
func VisibleIDs(s *Snapshot, opts ViewOptions, target SelectTarget) []uuid.UUID {
	var folders []FolderView
	var standalone []*models.Item
	if term := strings.TrimSpace(target.Search); term != "" && opts.View.IsWatched() {
		result := SearchWatched(s, term, opts)
		if target.Folder == nil {
			return result.IDs()
		}
		folders = result.Folders
	} else {
		view := BuildView(s, opts)
		folders, standalone = view.Folders, view.Standalone
	}

	if target.Folder == nil {
		return itemIDs(Page(standalone, target.Page, target.PerPage))
	}
	for _, f := range folders {
		if f.Folder.ID == *target.Folder {
			return itemIDs(f.Items)
		}
	}
	return []uuid.UUID{}
}

func itemIDs(items []*models.Item) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
