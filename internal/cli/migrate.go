package cli

import (
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/trackflix/internal/db"
)

func addMigrate(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, ro, func(e *env) error {
				sqlDB, err := e.db.GetSQLDB()
				if err != nil {
					return err
				}
				return db.RunMigrations(sqlDB, e.cfg.Database.MigrationsPath)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Example: `
trackflixctl migrate down
trackflixctl migrate down --steps 2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, ro, func(e *env) error {
				sqlDB, err := e.db.GetSQLDB()
				if err != nil {
					return err
				}
				return db.RollbackMigrations(sqlDB, e.cfg.Database.MigrationsPath, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back.")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, ro, func(e *env) error { return nil })
		},
	}

	cmd.AddCommand(up, down, status)
	topLevel.AddCommand(cmd)
}

// runMigration runs fn against the database, then prints the schema version
func runMigration(cmd *cobra.Command, ro *RootOptions, fn func(e *env) error) error {
	e, err := open(ro, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	if err := fn(e); err != nil {
		return err
	}

	sqlDB, err := e.db.GetSQLDB()
	if err != nil {
		return err
	}
	st, err := db.GetMigrationStatus(sqlDB, e.cfg.Database.MigrationsPath)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout(), ro)
	state := "clean"
	if st.Dirty {
		state = warning("dirty")
	}
	return p.table(st, []interface{}{"VERSION", "STATE"}, [][]interface{}{{st.Version, state}})
}
