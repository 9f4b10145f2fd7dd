// Package pipeline provides the complete legalization pipeline for
// rowfit.
//
// This package implements the parse → legalize → refine → emit flow used
// by both the CLI and the HTTP API. Centralizing it keeps the two entry
// points behaviorally identical: same tunables, same caching, same run
// history.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, history, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputPrefix:  "bench/ibm01",
//	    OutputPrefix: "out/ibm01",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Total displacement: %.4f\n", result.TotalDisplacement)
package pipeline

import (
	"time"

	"github.com/rowfit/rowfit/pkg/cache"
	"github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/legalize"
)

// Default tunables shared by CLI and API.
const (
	// DefaultSlack mirrors legalize.DefaultSlack.
	DefaultSlack = legalize.DefaultSlack

	// DefaultMaxIterations mirrors legalize.DefaultMaxIterations.
	DefaultMaxIterations = legalize.DefaultMaxIterations

	// DefaultCacheTTL bounds cached results to 30 days.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// Options configures one pipeline run. The struct supports JSON
// serialization for API requests.
type Options struct {
	// InputPrefix locates <prefix>.aux and the files it names.
	InputPrefix string `json:"input_prefix"`

	// OutputPrefix locates the emitted bundle.
	OutputPrefix string `json:"output_prefix"`

	// Slack widens the refinement search radius; zero selects the
	// default.
	Slack float64 `json:"slack,omitempty"`

	// MaxIterations caps refinement; zero selects the default.
	MaxIterations int `json:"max_iterations,omitempty"`

	// SkipRefine emits the initial legalization untouched.
	SkipRefine bool `json:"skip_refine,omitempty"`

	// Refresh bypasses the result cache.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL bounds the stored result's lifetime; zero selects the
	// default.
	CacheTTL time.Duration `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidatePrefix(o.InputPrefix); err != nil {
		return err
	}
	if err := errors.ValidatePrefix(o.OutputPrefix); err != nil {
		return err
	}
	if o.Slack < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "slack must be nonnegative, got %g", o.Slack)
	}
	if o.Slack == 0 {
		o.Slack = DefaultSlack
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max iterations must be nonnegative, got %d", o.MaxIterations)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	o.validated = true
	return nil
}

// keyOpts returns the cache key options for this run.
func (o *Options) keyOpts() cache.ResultKeyOpts {
	iters := o.MaxIterations
	if o.SkipRefine {
		iters = 0
	}
	return cache.ResultKeyOpts{Slack: o.Slack, MaxIterations: iters}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Design is the input bundle's base name.
	Design string `json:"design"`

	// RunID identifies this run in the history store.
	RunID string `json:"run_id"`

	// CellCount and RowCount describe the parsed design.
	CellCount int `json:"cell_count"`
	RowCount  int `json:"row_count"`

	// Unplaced names the cells the initial placer could not fit.
	Unplaced []string `json:"unplaced,omitempty"`

	// Iterations is the number of refinement iterations run.
	Iterations int `json:"iterations"`

	// TotalDisplacement and MaxDisplacement summarize movable-cell
	// displacement after all passes.
	TotalDisplacement float64 `json:"total_displacement"`
	MaxDisplacement   float64 `json:"max_displacement"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`

	// Stats contains timing information.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution timings.
type Stats struct {
	ParseTime    time.Duration `json:"parse_time"`
	LegalizeTime time.Duration `json:"legalize_time"`
	RefineTime   time.Duration `json:"refine_time"`
	EmitTime     time.Duration `json:"emit_time"`
}

// cachedResult is the payload stored in the result cache: the emitted
// .pl bytes plus the metrics needed to report without recomputing.
type cachedResult struct {
	PL                []byte   `json:"pl"`
	TotalDisplacement float64  `json:"total_displacement"`
	MaxDisplacement   float64  `json:"max_displacement"`
	Iterations        int      `json:"iterations"`
	Unplaced          []string `json:"unplaced,omitempty"`
}
