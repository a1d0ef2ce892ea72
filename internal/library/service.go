// Package library runs watchlist operations for a user: it loads a snapshot,
// asks the watchlist engine for a plan and commits the plan through the store.
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stwalsh4118/trackflix/internal/db"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

const (
	statusCommitted = "committed"
	statusNoop      = "noop"
	statusRejected  = "rejected"
	statusFailed    = "failed"
)

// Store is the persistence the service plans against
type Store interface {
	LoadSnapshot(ctx context.Context, userID string) (*watchlist.Snapshot, error)
	ApplyBatch(ctx context.Context, userID string, batch *watchlist.Batch) (uint64, error)
	Revision(userID string) uint64
	Subscribe(userID string) (<-chan db.Revision, func())
}

// Options tunes the service
type Options struct {
	DefaultWatchedSort   watchlist.WatchedSort
	DuplicateMaxDistance int
	UnwatchedPerPage     int
	WatchedPerPage       int
	FoldersPerPage       int
	ViewCacheTTL         time.Duration
	SelectionTTL         time.Duration
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		DefaultWatchedSort: watchlist.SortWatchedAtDesc,
		UnwatchedPerPage:   20,
		WatchedPerPage:     24,
		FoldersPerPage:     12,
		ViewCacheTTL:       5 * time.Minute,
		SelectionTTL:       30 * time.Minute,
	}
}

// Result reports what a write committed
type Result struct {
	Applied  int    `json:"applied"`
	Revision uint64 `json:"revision"`
}

// Service handles business logic for watchlist operations
type Service struct {
	store      Store
	opts       Options
	locks      *userLocks
	views      *cache.Cache
	selections *selectionStore
	metrics    *Metrics
	now        func() time.Time
}

// NewService creates a new library service instance. metrics may be nil.
func NewService(store Store, opts Options, metrics *Metrics) *Service {
	if opts.DefaultWatchedSort == "" {
		opts.DefaultWatchedSort = watchlist.SortWatchedAtDesc
	}
	return &Service{
		store:      store,
		opts:       opts,
		locks:      newUserLocks(),
		views:      cache.New(opts.ViewCacheTTL, 2*opts.ViewCacheTTL),
		selections: newSelectionStore(opts.SelectionTTL),
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Options returns the options the service was created with
func (s *Service) Options() Options {
	return s.opts
}

// Snapshot loads the current items and folders of a user
func (s *Service) Snapshot(ctx context.Context, userID string) (*watchlist.Snapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to load watchlist snapshot")
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return snap, nil
}

// Revision returns the latest committed revision of a user
func (s *Service) Revision(userID string) uint64 {
	return s.store.Revision(userID)
}

// Watch streams the revisions committed for a user until cancel is called
func (s *Service) Watch(userID string) (<-chan db.Revision, func()) {
	return s.store.Subscribe(userID)
}

// planFunc inspects a snapshot and returns the mutations of one operation
type planFunc func(snap *watchlist.Snapshot) (*watchlist.Batch, error)

// mutate runs load -> plan -> apply for one user while holding the user's
// lock. An empty plan commits nothing and is not an error.
func (s *Service) mutate(ctx context.Context, userID, operation string, plan planFunc) (Result, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		s.metrics.observeBatch(operation, statusFailed, nil, 0)
		return Result{}, fmt.Errorf("failed to %s: %w", operation, err)
	}

	batch, err := plan(snap)
	if err != nil {
		s.metrics.observeBatch(operation, statusRejected, nil, 0)
		logger.Log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("operation", operation).
			Msg("Watchlist operation rejected")
		return Result{}, fmt.Errorf("failed to %s: %w", operation, err)
	}

	if batch == nil || batch.Empty() {
		s.metrics.observeBatch(operation, statusNoop, nil, 0)
		logger.Log.Debug().
			Str("user_id", userID).
			Str("operation", operation).
			Msg("Watchlist operation had nothing to apply")
		return Result{Revision: snap.Revision}, nil
	}

	start := time.Now()
	rev, err := s.store.ApplyBatch(ctx, userID, batch)
	if err != nil {
		s.metrics.observeBatch(operation, statusFailed, batch, time.Since(start))
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Str("operation", operation).
			Int("mutation_count", batch.Len()).
			Msg("Failed to apply watchlist batch")
		return Result{}, fmt.Errorf("failed to %s: %w", operation, err)
	}
	s.metrics.observeBatch(operation, statusCommitted, batch, time.Since(start))

	logger.Log.Info().
		Str("user_id", userID).
		Str("operation", operation).
		Int("mutation_count", batch.Len()).
		Uint64("revision", rev).
		Msg("Watchlist batch applied")

	return Result{Applied: batch.Len(), Revision: rev}, nil
}
