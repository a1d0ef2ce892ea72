// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/trackflix/internal/api"
	"github.com/stwalsh4118/trackflix/internal/config"
	"github.com/stwalsh4118/trackflix/internal/db"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/middleware"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	store    *db.Store
	service  *library.Service
	registry *prometheus.Registry
	router   *gin.Engine
	server   *http.Server
}

// ServiceOptions converts the watchlist configuration into library options
func ServiceOptions(cfg config.WatchlistConfig) library.Options {
	return library.Options{
		DefaultWatchedSort:   watchlist.WatchedSort(cfg.DefaultWatchedSort),
		DuplicateMaxDistance: cfg.DuplicateMaxDistance,
		UnwatchedPerPage:     cfg.UnwatchedPerPage,
		WatchedPerPage:       cfg.WatchedPerPage,
		FoldersPerPage:       cfg.FoldersPerPage,
		ViewCacheTTL:         cfg.ViewCacheTTL,
		SelectionTTL:         cfg.SelectionTTL,
	}
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := db.NewStore(database)
	service := library.NewService(store, ServiceOptions(cfg.Watchlist), library.NewMetrics(registry))

	return &Server{
		config:   cfg,
		store:    store,
		service:  service,
		registry: registry,
	}
}

// corsMiddleware allows every origin unless the configuration narrows it
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return cors.Default()
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AddAllowHeaders(middleware.UserIDHeader)
	return cors.New(corsConfig)
}

// Router returns the router, building it on first use
func (s *Server) Router() *gin.Engine {
	if s.router == nil {
		s.setupRouter()
	}
	return s.router
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware(s.config.Server.CORSOrigins))

	if s.config.Metrics.Enabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	apiGroup := s.router.Group("/api")
	api.SetupHealthRoutes(apiGroup, s.store)

	// everything else is scoped to the calling user
	userGroup := apiGroup.Group("")
	userGroup.Use(middleware.RequireUser())

	timeout := s.config.Server.RequestTimeout
	api.SetupItemRoutes(userGroup, s.service, timeout)
	api.SetupFolderRoutes(userGroup, s.service, timeout)
	api.SetupViewRoutes(userGroup, s.service, timeout)
	api.SetupBackupRoutes(userGroup, s.service, timeout)
	api.SetupEventRoutes(userGroup, s.service, api.DefaultKeepAlive)
}

// Start starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:           s.config.Server.Address(),
		Handler:        s.Router(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Bool("metrics", s.config.Metrics.Enabled).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
