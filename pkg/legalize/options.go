package legalize

import "github.com/charmbracelet/log"

const (
	// DefaultSlack is the layout-unit margin added to a cell's current
	// displacement to bound the refinement search radius. The value is a
	// tunable inherited from the reference flow; there is no derivation
	// behind it.
	DefaultSlack = 20.0

	// DefaultMaxIterations bounds the refinement loop so worst-case cost
	// stays proportional to the design size.
	DefaultMaxIterations = 6
)

// Options configures the legalization passes.
type Options struct {
	// Slack widens the refinement search radius beyond the cell's
	// current displacement.
	Slack float64

	// MaxIterations caps the refinement loop.
	MaxIterations int

	// Logger receives per-cell diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Defaults returns the standard legalizer options.
func Defaults() Options {
	return Options{Slack: DefaultSlack, MaxIterations: DefaultMaxIterations}
}

func (o Options) withDefaults() Options {
	if o.Slack == 0 {
		o.Slack = DefaultSlack
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
