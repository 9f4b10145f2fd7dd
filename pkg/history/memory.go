package history

import (
	"context"
	"sync"
)

// MemoryStore keeps runs in process memory. It backs tests and the case
// where no history backend is configured but the caller still wants the
// records for the current process.
type MemoryStore struct {
	mu   sync.Mutex
	runs []Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record saves one run.
func (s *MemoryStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// List returns runs newest-first.
func (s *MemoryStore) List(ctx context.Context, design string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Run
	for i := len(s.runs) - 1; i >= 0; i-- {
		if design != "" && s.runs[i].Design != design {
			continue
		}
		out = append(out, s.runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
