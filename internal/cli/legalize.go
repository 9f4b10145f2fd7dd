package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/pipeline"
)

// legalizeOpts holds the command-line flags for the legalize command.
type legalizeOpts struct {
	slack         float64 // refinement search-radius slack in layout units
	maxIterations int     // refinement iteration cap
	skipRefine    bool    // emit the initial legalization untouched
	refresh       bool    // bypass the result cache
	backends      backendFlags
}

// newLegalizeCmd creates the legalize command, the main entry point of
// the tool: parse a Bookshelf bundle, legalize it, refine it, emit it.
//
// On success the summary metrics are written to stdout:
//
//	Total displacement: <total>
//	Maximum displacement: <max>
func newLegalizeCmd() *cobra.Command {
	var opts legalizeOpts

	cmd := &cobra.Command{
		Use:   "legalize <input_prefix> <output_prefix>",
		Short: "Legalize a global placement and write the result",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: rowfit legalize <input_prefix> <output_prefix>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegalize(cmd, args[0], args[1], &opts)
		},
	}

	cmd.Flags().Float64Var(&opts.slack, "slack", 0, "refinement search-radius slack in layout units (default 20)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "refinement iteration cap (default 6)")
	cmd.Flags().BoolVar(&opts.skipRefine, "skip-refine", false, "emit the initial legalization without refinement")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	opts.backends.register(cmd)

	return cmd
}

func runLegalize(cmd *cobra.Command, inputPrefix, outputPrefix string, opts *legalizeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.backends.load()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("slack") {
		opts.slack = cfg.Slack
	}
	if !cmd.Flags().Changed("max-iterations") {
		opts.maxIterations = cfg.MaxIterations
	}

	resultCache, err := opts.backends.openCache(ctx, logger)
	if err != nil {
		return err
	}
	defer resultCache.Close()

	historyStore, err := opts.backends.openHistory(ctx, logger)
	if err != nil {
		return err
	}
	if historyStore != nil {
		defer historyStore.Close(context.WithoutCancel(ctx))
	}

	logger.Info("legalizing", "input", inputPrefix, "output", outputPrefix)
	prog := newProgress(logger)

	runner := pipeline.NewRunner(resultCache, historyStore, logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		InputPrefix:   inputPrefix,
		OutputPrefix:  outputPrefix,
		Slack:         opts.slack,
		MaxIterations: opts.maxIterations,
		SkipRefine:    opts.skipRefine,
		Refresh:       opts.refresh,
		CacheTTL:      cfg.CacheTTL.Std(),
	})
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Legalized %d cells in %d refinement iterations", result.CellCount, result.Iterations))
	printStats(result.CellCount, result.RowCount, result.CacheHit)
	if n := len(result.Unplaced); n > 0 {
		printWarning("%d cells could not be placed and keep their input coordinates", n)
	}
	for _, ext := range []string{".aux", ".nodes", ".pl", ".scl", ".nets", ".wts"} {
		printFile(outputPrefix + ext)
	}

	fmt.Printf("Total displacement: %.4f\n", result.TotalDisplacement)
	fmt.Printf("Maximum displacement: %.4f\n", result.MaxDisplacement)
	return nil
}
