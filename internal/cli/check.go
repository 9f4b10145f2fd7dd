package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/bookshelf"
	"github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/legality"
)

// newCheckCmd creates the check command: audit a Bookshelf bundle for
// legality violations without modifying it. The exit code is nonzero
// when violations exist, so the command slots into scripted flows.
func newCheckCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "check <prefix>",
		Short: "Audit a placement bundle for legality violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse violations interactively")
	return cmd
}

func runCheck(cmd *cobra.Command, prefix string, interactive bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("auditing %s", prefix))
	spinner.Start()
	design, err := bookshelf.Load(prefix, logger)
	if err != nil {
		spinner.Stop()
		return err
	}
	violations := legality.Audit(design.Placement, nil)
	spinner.Stop()

	if len(violations) == 0 {
		printSuccess("%s is legal: %d cells, %d rows", design.Name, len(design.Placement.Cells), len(design.Placement.Rows))
		return nil
	}

	if interactive {
		if err := browseViolations(design.Name, violations); err != nil {
			return err
		}
	} else {
		printError("%s has %d violations", design.Name, len(violations))
		for _, v := range violations {
			printDetail("%s", v)
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "%d legality violations in %s", len(violations), design.Name)
}
