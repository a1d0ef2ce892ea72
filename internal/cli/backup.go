package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/trackflix/internal/library"
)

// importSummary is the JSON form of an import run
type importSummary struct {
	User string `json:"user"`
	library.ImportResult
}

func addExport(topLevel *cobra.Command, ro *RootOptions) {
	uo := &UserOptions{}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's watched list as a backup file",
		Example: `
trackflixctl export --user alice > watched.json
trackflixctl export --user alice --output watched.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uo.User == "" {
				return fmt.Errorf("--user is required")
			}

			e, err := openService(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			items, err := e.service.ExportWatched(cmd.Context(), uo.User)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(items); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			if output != "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), success(fmt.Sprintf("Exported %d watched items to %s", len(items), output)))
			}
			return nil
		},
	}
	addUserArgs(cmd, uo, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write instead of stdout.")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, ro *RootOptions) {
	uo := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Restore a backup file into a user's watched list",
		Long: "Restore a backup file into a user's watched list. Titles already " +
			"watched are skipped, so importing the same file twice adds nothing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if uo.User == "" {
				return fmt.Errorf("--user is required")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			entries, err := library.ParseBackup(data)
			if err != nil {
				return err
			}

			e, err := openService(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.service.ImportWatched(cmd.Context(), uo.User, entries)
			if err != nil {
				return err
			}

			return newPrinter(cmd.OutOrStdout(), ro).done(
				importSummary{User: uo.User, ImportResult: res},
				"Imported %d items for %s (%d skipped)", res.Imported, uo.User, res.Skipped,
			)
		},
	}
	addUserArgs(cmd, uo, false)

	topLevel.AddCommand(cmd)
}
