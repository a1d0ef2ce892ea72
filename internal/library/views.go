package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// ViewQuery selects one page of a view
type ViewQuery struct {
	View   watchlist.View
	Filter watchlist.WatchedFilter
	Sort   watchlist.WatchedSort
	// Search narrows the watched view by title and folder name
	Search     string
	Page       int
	PerPage    int
	FolderPage int
	// Folder scopes selection calls to one folder's items
	Folder *uuid.UUID
}

// ViewPage is one page of a categorized view. Standalone items and folders
// are paged independently; folders always carry their full contents.
type ViewPage struct {
	View       watchlist.View          `json:"view"`
	Filter     watchlist.WatchedFilter `json:"filter,omitempty"`
	Sort       watchlist.WatchedSort   `json:"sort,omitempty"`
	Search     string                  `json:"search,omitempty"`
	Revision   uint64                  `json:"revision"`
	Counts     watchlist.Counts        `json:"counts"`
	Standalone []*models.Item          `json:"standalone"`
	Folders    []FolderContents        `json:"folders"`

	Page             int `json:"page"`
	PerPage          int `json:"per_page"`
	TotalPages       int `json:"total_pages"`
	TotalStandalone  int `json:"total_standalone"`
	FolderPage       int `json:"folder_page"`
	FoldersPerPage   int `json:"folders_per_page"`
	TotalFolderPages int `json:"total_folder_pages"`
	TotalFolders     int `json:"total_folders"`
}

// FolderContents is a visible folder and the view's items inside it
type FolderContents struct {
	Folder *models.Folder `json:"folder"`
	Items  []*models.Item `json:"items"`
}

// viewData is the unpaged result cached per user, revision and query
type viewData struct {
	revision   uint64
	counts     watchlist.Counts
	standalone []*models.Item
	folders    []FolderContents
}

// normalize fills defaults and validates the view
func (s *Service) normalize(q ViewQuery) (ViewQuery, error) {
	if _, err := watchlist.ParseView(string(q.View)); err != nil {
		return q, err
	}
	if q.View.IsWatched() {
		if q.Filter == "" {
			q.Filter = watchlist.FilterAll
		}
		if q.Sort == "" {
			q.Sort = s.opts.DefaultWatchedSort
		}
	} else {
		q.Filter, q.Sort, q.Search = "", "", ""
	}
	q.Search = strings.TrimSpace(q.Search)

	if q.Page < 1 {
		q.Page = 1
	}
	if q.FolderPage < 1 {
		q.FolderPage = 1
	}
	if q.PerPage < 1 {
		q.PerPage = s.opts.UnwatchedPerPage
		if q.View.IsWatched() {
			q.PerPage = s.opts.WatchedPerPage
		}
	}
	return q, nil
}

func (q ViewQuery) options() watchlist.ViewOptions {
	return watchlist.ViewOptions{View: q.View, Filter: q.Filter, Sort: q.Sort}
}

func viewCacheKey(userID string, rev uint64, q ViewQuery) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s", userID, rev, q.View, q.Filter, q.Sort, strings.ToLower(q.Search))
}

// View returns one page of a categorized view. Results are cached per store
// revision, so a committed write is visible on the next call.
func (s *Service) View(ctx context.Context, userID string, q ViewQuery) (*ViewPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	data, err := s.viewData(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	folderPerPage := s.opts.FoldersPerPage
	page := &ViewPage{
		View:             q.View,
		Filter:           q.Filter,
		Sort:             q.Sort,
		Search:           q.Search,
		Revision:         data.revision,
		Counts:           data.counts,
		Standalone:       watchlist.Page(data.standalone, q.Page, q.PerPage),
		Folders:          watchlist.Page(data.folders, q.FolderPage, folderPerPage),
		Page:             q.Page,
		PerPage:          q.PerPage,
		TotalPages:       watchlist.PageCount(len(data.standalone), q.PerPage),
		TotalStandalone:  len(data.standalone),
		FolderPage:       q.FolderPage,
		FoldersPerPage:   folderPerPage,
		TotalFolderPages: watchlist.PageCount(len(data.folders), folderPerPage),
		TotalFolders:     len(data.folders),
	}
	return page, nil
}

func (s *Service) viewData(ctx context.Context, userID string, q ViewQuery) (*viewData, error) {
	key := viewCacheKey(userID, s.store.Revision(userID), q)
	if cached, ok := s.views.Get(key); ok {
		s.metrics.observeCache(true)
		return cached.(*viewData), nil
	}
	s.metrics.observeCache(false)

	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := q.options()
	countOpts := opts
	countOpts.Filter = watchlist.FilterAll

	data := &viewData{
		revision: snap.Revision,
		counts:   watchlist.CountItems(snap.Items, countOpts),
	}

	if q.View.IsWatched() && q.Search != "" {
		result := watchlist.SearchWatched(snap, q.Search, opts)
		data.standalone = result.Items
		data.folders = folderContents(result.Folders)
	} else {
		result := watchlist.BuildView(snap, opts)
		data.standalone = result.Standalone
		data.folders = folderContents(result.Folders)
	}

	s.views.Set(viewCacheKey(userID, snap.Revision, q), data, cache.DefaultExpiration)
	return data, nil
}

func folderContents(views []watchlist.FolderView) []FolderContents {
	out := make([]FolderContents, 0, len(views))
	for _, v := range views {
		items := v.Items
		if items == nil {
			items = []*models.Item{}
		}
		out = append(out, FolderContents{Folder: v.Folder, Items: items})
	}
	return out
}
