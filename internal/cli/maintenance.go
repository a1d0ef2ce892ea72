package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// UserOptions selects the users a command works on
type UserOptions struct {
	User string
	All  bool
}

func addUserArgs(cmd *cobra.Command, uo *UserOptions, allowAll bool) {
	cmd.Flags().StringVar(&uo.User, "user", "", "User id to work on.")
	if allowAll {
		cmd.Flags().BoolVar(&uo.All, "all", false, "Work on every user.")
	}
}

func addUsers(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the users that own items or folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openService(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			users, err := e.store.Repositories().Items.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u})
			}
			return newPrinter(cmd.OutOrStdout(), ro).table(users, []interface{}{"USER"}, rows)
		},
	}

	topLevel.AddCommand(cmd)
}

// densifyResult is one user's row of a densify run
type densifyResult struct {
	User     string `json:"user"`
	Applied  int    `json:"applied"`
	Revision uint64 `json:"revision"`
}

func addDensify(topLevel *cobra.Command, ro *RootOptions) {
	uo := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "densify",
		Short: "Re-rank every partition to 1..N, closing gaps and collisions",
		Example: `
trackflixctl densify --user alice
trackflixctl densify --all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openService(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			users, err := e.users(cmd.Context(), uo.User, uo.All)
			if err != nil {
				return err
			}

			results := make([]densifyResult, 0, len(users))
			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				res, err := e.service.Densify(cmd.Context(), u)
				if err != nil {
					return fmt.Errorf("densify %s: %w", u, err)
				}
				results = append(results, densifyResult{User: u, Applied: res.Applied, Revision: res.Revision})
				applied := fmt.Sprint(res.Applied)
				if res.Applied == 0 {
					applied = faint("already dense")
				}
				rows = append(rows, []interface{}{u, applied})
			}
			return newPrinter(cmd.OutOrStdout(), ro).table(results, []interface{}{"USER", "RE-RANKED"}, rows)
		},
	}
	addUserArgs(cmd, uo, true)

	topLevel.AddCommand(cmd)
}

func addDuplicates(topLevel *cobra.Command, ro *RootOptions) {
	uo := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Report items whose titles look alike. Nothing is deleted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uo.User == "" {
				return fmt.Errorf("--user is required")
			}

			e, err := openService(ro, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			groups, err := e.service.Duplicates(cmd.Context(), uo.User)
			if err != nil {
				return err
			}

			var rows [][]interface{}
			for _, g := range groups {
				for i, item := range g.Items {
					verdict := warning("delete?")
					if i == 0 {
						verdict = success("keep")
					}
					rows = append(rows, []interface{}{g.Normalized, item.Title, describe(item), verdict, item.ID})
				}
			}
			if groups == nil {
				groups = []watchlist.Group{}
			}
			return newPrinter(cmd.OutOrStdout(), ro).table(groups, []interface{}{"KEY", "TITLE", "STATE", "SUGGESTION", "ID"}, rows)
		},
	}
	addUserArgs(cmd, uo, false)

	topLevel.AddCommand(cmd)
}

// describe summarizes where an item lives and how it was rated
func describe(item *models.Item) string {
	parts := []string{string(item.Type)}
	if item.Watched {
		parts = append(parts, "watched")
	} else {
		parts = append(parts, "unwatched")
	}
	if item.Rating.HasValue() {
		parts = append(parts, "rated "+item.Rating.String())
	}
	if !item.IsStandalone() {
		parts = append(parts, "in folder")
	}
	return strings.Join(parts, ", ")
}
