package history

import (
	"context"
	"testing"
)

func TestNewRun(t *testing.T) {
	r := NewRun("ibm01")
	if r.ID == "" {
		t.Error("NewRun should assign an id")
	}
	if r.Design != "ibm01" {
		t.Errorf("Design = %q, want ibm01", r.Design)
	}
	if r.CreatedAt.IsZero() {
		t.Error("NewRun should stamp CreatedAt")
	}

	other := NewRun("ibm01")
	if other.ID == r.ID {
		t.Error("run ids should be unique")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	for _, design := range []string{"ibm01", "ibm02", "ibm01"} {
		r := NewRun(design)
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	// Unfiltered, newest first
	runs, err := s.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].Design != "ibm01" || runs[1].Design != "ibm02" {
		t.Errorf("runs not newest-first: %v, %v", runs[0].Design, runs[1].Design)
	}

	// Filtered by design
	runs, err = s.List(ctx, "ibm01", 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(ibm01 runs) = %d, want 2", len(runs))
	}

	// Limited
	runs, err = s.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("len(limited runs) = %d, want 1", len(runs))
	}
}
