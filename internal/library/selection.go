package library

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// selectionStore keeps one selection per user. Idle selections expire.
type selectionStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func newSelectionStore(ttl time.Duration) *selectionStore {
	return &selectionStore{cache: cache.New(ttl, 2*ttl)}
}

// with runs fn on the user's selection moved to scope, under the store lock
func (st *selectionStore) with(userID string, scope watchlist.SelectionScope, fn func(sel *watchlist.Selection)) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sel := watchlist.NewSelection(scope)
	if cached, ok := st.cache.Get(userID); ok {
		sel = cached.(*watchlist.Selection)
		sel.Rescope(scope)
	}
	fn(sel)
	st.cache.Set(userID, sel, cache.DefaultExpiration)
}

func (st *selectionStore) clear(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cache.Delete(userID)
}

// SelectionState is a user's selection as seen from one page of a view
type SelectionState struct {
	Scope       watchlist.SelectionScope `json:"scope"`
	IDs         []uuid.UUID              `json:"ids"`
	Count       int                      `json:"count"`
	AllSelected bool                     `json:"all_selected"`
}

func stateOf(sel *watchlist.Selection, visible []uuid.UUID) *SelectionState {
	return &SelectionState{
		Scope:       sel.Scope(),
		IDs:         sel.IDs(),
		Count:       sel.Len(),
		AllSelected: sel.IsAllSelected(visible),
	}
}

// selectionContext loads the snapshot a selection call works against and the
// ids a select-all covers: the page, the search results or one folder
func (s *Service) selectionContext(ctx context.Context, userID string, q ViewQuery) (*watchlist.Snapshot, ViewQuery, []uuid.UUID, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, q, nil, err
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, q, nil, err
	}
	if q.Folder != nil && !snap.HasFolder(q.Folder) {
		return nil, q, nil, watchlist.ErrFolderNotFound
	}
	visible := watchlist.VisibleIDs(snap, q.options(), watchlist.SelectTarget{
		Page:    q.Page,
		PerPage: q.PerPage,
		Search:  q.Search,
		Folder:  q.Folder,
	})
	return snap, q, visible, nil
}

func scopeOf(q ViewQuery) watchlist.SelectionScope {
	return watchlist.SelectionScope{View: q.View, PerPage: q.PerPage}
}

// Selection returns the user's selection for a page of a view. Switching the
// view or page size clears it; ids deleted meanwhile are dropped.
func (s *Service) Selection(ctx context.Context, userID string, q ViewQuery) (*SelectionState, error) {
	snap, q, visible, err := s.selectionContext(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	var state *SelectionState
	s.selections.with(userID, scopeOf(q), func(sel *watchlist.Selection) {
		sel.Retain(snap)
		state = stateOf(sel, visible)
	})
	return state, nil
}

// ToggleSelection flips one item in or out of the selection
func (s *Service) ToggleSelection(ctx context.Context, userID string, q ViewQuery, itemID uuid.UUID) (*SelectionState, error) {
	snap, q, visible, err := s.selectionContext(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	if snap.Item(itemID) == nil {
		return nil, watchlist.ErrItemNotFound
	}

	var state *SelectionState
	s.selections.with(userID, scopeOf(q), func(sel *watchlist.Selection) {
		sel.Retain(snap)
		sel.Toggle(itemID)
		state = stateOf(sel, visible)
	})
	return state, nil
}

// SelectAll adds or removes every item the query covers: the standalone
// items of the page, every search result, or one folder's items
func (s *Service) SelectAll(ctx context.Context, userID string, q ViewQuery, checked bool) (*SelectionState, error) {
	snap, q, visible, err := s.selectionContext(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	var state *SelectionState
	s.selections.with(userID, scopeOf(q), func(sel *watchlist.Selection) {
		sel.Retain(snap)
		sel.SelectAll(visible, checked)
		state = stateOf(sel, visible)
	})
	return state, nil
}

// ClearSelection empties the user's selection
func (s *Service) ClearSelection(userID string) {
	s.selections.clear(userID)
}

// selected returns the ids picked in the scope of q
func (s *Service) selected(userID string, q ViewQuery) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	s.selections.with(userID, scopeOf(q), func(sel *watchlist.Selection) {
		ids = sel.IDs()
	})
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	return ids, nil
}

// MoveSelection moves the selected items into a folder and clears the
// selection once the move is committed
func (s *Service) MoveSelection(ctx context.Context, userID string, q ViewQuery, folderID *uuid.UUID) (Result, error) {
	q, err := s.normalize(q)
	if err != nil {
		return Result{}, err
	}
	ids, err := s.selected(userID, q)
	if err != nil {
		return Result{}, err
	}

	result, err := s.BulkMove(ctx, userID, ids, folderID, q.View)
	if err != nil {
		return Result{}, err
	}
	s.ClearSelection(userID)
	return result, nil
}

// DeleteSelection deletes the selected items and clears the selection
func (s *Service) DeleteSelection(ctx context.Context, userID string, q ViewQuery) (Result, error) {
	q, err := s.normalize(q)
	if err != nil {
		return Result{}, err
	}
	ids, err := s.selected(userID, q)
	if err != nil {
		return Result{}, err
	}

	result, err := s.BulkDelete(ctx, userID, ids)
	if err != nil {
		return Result{}, err
	}
	s.ClearSelection(userID)
	return result, nil
}
