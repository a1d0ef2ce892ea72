// Package cli implements trackflixctl, the maintenance command line for the
// watchlist database.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/trackflix/internal/config"
	"github.com/stwalsh4118/trackflix/internal/db"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/server"
)

// RootOptions are the flags every command shares
type RootOptions struct {
	ConfigPath string
	JSON       bool
}

// New builds the trackflixctl command tree
func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "trackflixctl",
		Short:         "Maintain a trackflix watchlist database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "Path to a config file.")
	cmd.PersistentFlags().BoolVar(&ro.JSON, "json", false, "Output as JSON.")

	AddCommands(cmd, ro)
	return cmd
}

// AddCommands registers every subcommand on topLevel
func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addMigrate(topLevel, ro)
	addUsers(topLevel, ro)
	addDensify(topLevel, ro)
	addDuplicates(topLevel, ro)
	addExport(topLevel, ro)
	addImport(topLevel, ro)
}

// env is an opened database plus the services built on it
type env struct {
	cfg     *config.Config
	db      *db.DB
	store   *db.Store
	service *library.Service
}

// open loads the configuration, routes logs to stderr and opens the database
func open(ro *RootOptions, stderr io.Writer) (*env, error) {
	cfg, _, err := config.LoadFrom(ro.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger.InitWithWriter(stderr, cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.Open(cfg.Database.Path, db.Options{
		ConnectTimeout: cfg.Database.ConnectionTimeout,
		LogQueries:     cfg.Database.LogQueries,
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: database}, nil
}

// openService is open plus pending migrations and a library service
func openService(ro *RootOptions, stderr io.Writer) (*env, error) {
	e, err := open(ro, stderr)
	if err != nil {
		return nil, err
	}
	sqlDB, err := e.db.GetSQLDB()
	if err != nil {
		e.close()
		return nil, err
	}
	if err := db.RunMigrations(sqlDB, e.cfg.Database.MigrationsPath); err != nil {
		e.close()
		return nil, err
	}
	e.store = db.NewStore(e.db)
	e.service = library.NewService(e.store, server.ServiceOptions(e.cfg.Watchlist), nil)
	return e, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to close database")
	}
}

// users resolves the --user/--all pair of a command
func (e *env) users(ctx context.Context, user string, all bool) ([]string, error) {
	switch {
	case all && user != "":
		return nil, fmt.Errorf("--user and --all are mutually exclusive")
	case all:
		return e.store.Repositories().Items.ListUsers(ctx)
	case user != "":
		return []string{user}, nil
	}
	return nil, fmt.Errorf("one of --user or --all is required")
}
