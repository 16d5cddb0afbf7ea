package cli

import (
	"fmt"
	"io"

	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgresql.Migrate(ctx, db)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rootOpts, map[string]any{"applied": applied}, func(w io.Writer) {
				if len(applied) == 0 {
					fmt.Fprintln(w, "Schema is up to date")
					return
				}
				for _, v := range applied {
					fmt.Fprintf(w, "applied %s\n", v)
				}
			})
		},
	}
}
