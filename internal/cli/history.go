package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/errors"
)

// newHistoryCmd creates the history command: list recorded runs from the
// configured MongoDB store.
func newHistoryCmd() *cobra.Command {
	var (
		design   string
		limit    int
		backends backendFlags
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded legalization runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if _, err := backends.load(); err != nil {
				return err
			}
			store, err := backends.openHistory(ctx, logger)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New(errors.ErrCodeInvalidInput, "no history backend configured: pass --history-uri or set history_uri in rowfit.toml")
			}
			defer store.Close(context.WithoutCancel(ctx))

			runs, err := store.List(ctx, design, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No recorded runs")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%s  %-12s  cells=%-8d total=%-12.4f max=%-10.4f iters=%d  %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Design, run.Cells, run.TotalDisplacement, run.MaxDisplacement,
					run.Iterations, run.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&design, "design", "", "filter by design name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	backends.register(cmd)
	return cmd
}
