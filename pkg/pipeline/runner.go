package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rowfit/rowfit/pkg/bookshelf"
	"github.com/rowfit/rowfit/pkg/cache"
	"github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/history"
	"github.com/rowfit/rowfit/pkg/legalize"
	"github.com/rowfit/rowfit/pkg/observability"
)

// Runner executes the legalization pipeline.
type Runner struct {
	cache   cache.Cache
	keyer   cache.Keyer
	history history.Store
	logger  *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a
// nil history store disables run recording, and a nil logger selects
// log.Default().
func NewRunner(c cache.Cache, h history.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		history: h,
		logger:  logger,
	}
}

// Execute runs parse → legalize → refine → emit and returns the run's
// metrics. Structural input problems are errors; per-cell conditions are
// logged and reflected in the result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if !opts.validated {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return nil, err
		}
	}

	start := time.Now()

	// Parse.
	observability.Pipeline().OnParseStart(ctx, opts.InputPrefix)
	design, err := bookshelf.Load(opts.InputPrefix, r.logger)
	parseTime := time.Since(start)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, opts.InputPrefix, 0, 0, parseTime, err)
		return nil, err
	}
	p := design.Placement
	observability.Pipeline().OnParseComplete(ctx, design.Name, len(p.Cells), len(p.Rows), parseTime, nil)
	r.logger.Debug("parsed design", "design", design.Name, "cells", len(p.Cells), "rows", len(p.Rows))

	result := &Result{
		Design:    design.Name,
		CellCount: len(p.Cells),
		RowCount:  len(p.Rows),
		Stats:     Stats{ParseTime: parseTime},
	}

	// Cache lookup.
	key, hashErr := r.resultKey(design, opts)
	if hashErr != nil {
		r.logger.Warn("cannot hash design, caching disabled for this run", "err", hashErr)
	} else if !opts.Refresh {
		if hit, err := r.tryCached(ctx, key, design, opts, result); err != nil {
			return nil, err
		} else if hit {
			r.recordRun(ctx, result, time.Since(start))
			return result, nil
		}
	}

	// Legalize.
	legalizeOpts := legalize.Options{
		Slack:         opts.Slack,
		MaxIterations: opts.MaxIterations,
		Logger:        r.logger,
	}
	observability.Pipeline().OnLegalizeStart(ctx, design.Name, len(p.Cells))
	stageStart := time.Now()
	result.Unplaced = legalize.Initial(p, legalizeOpts)
	result.Stats.LegalizeTime = time.Since(stageStart)
	observability.Pipeline().OnLegalizeComplete(ctx, design.Name, len(result.Unplaced), result.Stats.LegalizeTime)

	// Refine.
	if !opts.SkipRefine {
		observability.Pipeline().OnRefineStart(ctx, design.Name)
		stageStart = time.Now()
		result.Iterations = legalize.Refine(p, legalizeOpts)
		result.Stats.RefineTime = time.Since(stageStart)
	}
	result.TotalDisplacement, result.MaxDisplacement = p.Displacement()
	observability.Pipeline().OnRefineComplete(ctx, design.Name, result.Iterations, result.TotalDisplacement, result.Stats.RefineTime)

	// Emit.
	observability.Pipeline().OnEmitStart(ctx, design.Name)
	stageStart = time.Now()
	err = design.Emit(opts.OutputPrefix)
	result.Stats.EmitTime = time.Since(stageStart)
	observability.Pipeline().OnEmitComplete(ctx, design.Name, result.Stats.EmitTime, err)
	if err != nil {
		return nil, err
	}

	if hashErr == nil {
		r.storeCached(ctx, key, opts, result)
	}
	r.recordRun(ctx, result, time.Since(start))
	return result, nil
}

// resultKey hashes the geometry inputs plus the tunables.
func (r *Runner) resultKey(design *bookshelf.Design, opts Options) (string, error) {
	var contents [][]byte
	for _, kind := range []string{"nodes", "pl", "scl"} {
		data, err := os.ReadFile(design.Files[kind])
		if err != nil {
			return "", err
		}
		contents = append(contents, data)
	}
	return r.keyer.ResultKey(cache.DesignHash(contents...), opts.keyOpts()), nil
}

// tryCached applies a cached result: the stored .pl bytes are written
// verbatim and the remaining artifacts are regenerated from the input,
// which is exactly what a fresh run would emit.
func (r *Runner) tryCached(ctx context.Context, key string, design *bookshelf.Design, opts Options, result *Result) (bool, error) {
	data, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache read failed", "err", err)
		return false, nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return false, nil
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		r.logger.Warn("corrupt cache entry, recomputing", "err", err)
		_ = r.cache.Delete(ctx, key)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, "result")
	r.logger.Debug("result cache hit", "design", design.Name)

	emitStart := time.Now()
	if err := bookshelf.WriteAux(opts.OutputPrefix+".aux", opts.OutputPrefix); err != nil {
		return false, err
	}
	if err := bookshelf.WriteNodes(opts.OutputPrefix+".nodes", design.Nodes); err != nil {
		return false, err
	}
	if err := os.WriteFile(opts.OutputPrefix+".pl", cached.PL, 0644); err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "write %s.pl", opts.OutputPrefix)
	}
	if err := bookshelf.WriteScl(opts.OutputPrefix+".scl", design.Placement.Rows); err != nil {
		return false, err
	}
	if err := bookshelf.CopyFile(design.Files["nets"], opts.OutputPrefix+".nets"); err != nil {
		return false, err
	}
	if err := bookshelf.CopyFile(design.Files["wts"], opts.OutputPrefix+".wts"); err != nil {
		return false, err
	}
	result.Stats.EmitTime = time.Since(emitStart)

	result.TotalDisplacement = cached.TotalDisplacement
	result.MaxDisplacement = cached.MaxDisplacement
	result.Iterations = cached.Iterations
	result.Unplaced = cached.Unplaced
	result.CacheHit = true
	return true, nil
}

// storeCached saves the emitted .pl plus metrics for future runs.
func (r *Runner) storeCached(ctx context.Context, key string, opts Options, result *Result) {
	pl, err := os.ReadFile(opts.OutputPrefix + ".pl")
	if err != nil {
		r.logger.Warn("cannot read emitted .pl for caching", "err", err)
		return
	}
	payload, err := json.Marshal(cachedResult{
		PL:                pl,
		TotalDisplacement: result.TotalDisplacement,
		MaxDisplacement:   result.MaxDisplacement,
		Iterations:        result.Iterations,
		Unplaced:          result.Unplaced,
	})
	if err != nil {
		r.logger.Warn("cannot marshal cache payload", "err", err)
		return
	}
	if err := r.cache.Set(ctx, key, payload, opts.CacheTTL); err != nil {
		r.logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(payload))
}

// recordRun writes the run to the history store, best effort.
func (r *Runner) recordRun(ctx context.Context, result *Result, elapsed time.Duration) {
	run := history.NewRun(result.Design)
	result.RunID = run.ID
	if r.history == nil {
		return
	}
	run.Cells = result.CellCount
	run.Rows = result.RowCount
	run.Unplaced = len(result.Unplaced)
	run.TotalDisplacement = result.TotalDisplacement
	run.MaxDisplacement = result.MaxDisplacement
	run.Iterations = result.Iterations
	run.Duration = elapsed
	run.CacheHit = result.CacheHit
	if err := r.history.Record(ctx, run); err != nil {
		r.logger.Warn("cannot record run history", "err", err)
	}
}
