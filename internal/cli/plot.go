package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/bookshelf"
	"github.com/rowfit/rowfit/pkg/legality"
	"github.com/rowfit/rowfit/pkg/render"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	output string  // output path, "-" for stdout
	width  float64 // output pixel width
	traces bool    // draw original-to-final displacement traces
}

// newPlotCmd creates the plot command: render a Bookshelf bundle as an
// SVG with cells colored by audit status.
func newPlotCmd() *cobra.Command {
	opts := plotOpts{width: 1200}

	cmd := &cobra.Command{
		Use:   "plot <prefix>",
		Short: "Render a placement bundle to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <prefix>.svg, \"-\" for stdout)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "output width in pixels")
	cmd.Flags().BoolVar(&opts.traces, "traces", false, "draw displacement traces")

	return cmd
}

func runPlot(cmd *cobra.Command, prefix string, opts *plotOpts) error {
	logger := loggerFromContext(cmd.Context())

	design, err := bookshelf.Load(prefix, logger)
	if err != nil {
		return err
	}
	violations := legality.Audit(design.Placement, nil)
	if len(violations) > 0 {
		printWarning("%d violations will be highlighted", len(violations))
	}

	svgOpts := []render.SVGOption{render.WithWidth(opts.width)}
	if opts.traces {
		svgOpts = append(svgOpts, render.WithTraces())
	}
	svg := render.SVG(design.Placement, violations, svgOpts...)

	if opts.output == "-" {
		_, err := os.Stdout.Write(svg)
		return err
	}

	out := opts.output
	if out == "" {
		out = prefix + ".svg"
	}
	if err := os.WriteFile(out, svg, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Plotted %d cells", len(design.Placement.Cells))
	printFile(out)
	return nil
}
