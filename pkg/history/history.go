// Package history records legalization runs so displacement quality can
// be compared across invocations of the same benchmark.
//
// Each completed run becomes one [Run] document: the design name, the
// input sizes, the displacement metrics and the wall time. The [Store]
// interface has an in-memory implementation for tests and a MongoDB
// implementation for shared deployments. Recording is best-effort at the
// call sites: a store failure is logged, never fatal.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded legalization.
type Run struct {
	ID                string        `bson:"_id" json:"id"`
	Design            string        `bson:"design" json:"design"`
	Cells             int           `bson:"cells" json:"cells"`
	Rows              int           `bson:"rows" json:"rows"`
	Unplaced          int           `bson:"unplaced" json:"unplaced"`
	TotalDisplacement float64       `bson:"total_displacement" json:"total_displacement"`
	MaxDisplacement   float64       `bson:"max_displacement" json:"max_displacement"`
	Iterations        int           `bson:"iterations" json:"iterations"`
	Duration          time.Duration `bson:"duration" json:"duration"`
	CacheHit          bool          `bson:"cache_hit" json:"cache_hit"`
	CreatedAt         time.Time     `bson:"created_at" json:"created_at"`
}

// NewRun creates a run record with a fresh id and timestamp.
func NewRun(design string) Run {
	return Run{
		ID:        uuid.NewString(),
		Design:    design,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists run records.
type Store interface {
	// Record saves one run.
	Record(ctx context.Context, run Run) error

	// List returns runs newest-first, optionally filtered by design name
	// and capped at limit (0 means no cap).
	List(ctx context.Context, design string, limit int) ([]Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
