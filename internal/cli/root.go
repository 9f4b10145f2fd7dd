package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/buildinfo"
)

// Execute runs the rowfit CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (legalize,
// check, plot, serve, cache, history), configures logging based on the
// --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "rowfit",
		Short:        "rowfit legalizes row-based standard-cell placements",
		Long:         `rowfit is a CLI tool for legalizing Bookshelf/UCLA global placements: it snaps every movable cell to a site, removes overlaps, and minimizes total displacement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLegalizeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newPlotCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
