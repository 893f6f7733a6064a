package archive

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryArchive is an in-memory archive for tests and single-process setups.
type MemoryArchive struct {
	mu       sync.RWMutex
	formulas map[string]Formula
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		formulas: make(map[string]Formula),
	}
}

// Save stores a formula, replacing any existing entry with the same digest.
func (a *MemoryArchive) Save(ctx context.Context, f Formula) error {
	if f.Digest == "" {
		return fmt.Errorf("formula digest cannot be empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.formulas[f.Digest] = f
	return nil
}

// Get retrieves a formula by digest.
func (a *MemoryArchive) Get(ctx context.Context, digest string) (Formula, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.formulas[digest]
	if !ok {
		return Formula{}, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	return f, nil
}

// List returns the most recently archived formulas, newest first.
func (a *MemoryArchive) List(ctx context.Context, limit int) ([]Formula, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Formula, 0, len(a.formulas))
	for _, f := range a.formulas {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the in-memory archive.
func (a *MemoryArchive) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryArchive implements Archive.
var _ Archive = (*MemoryArchive)(nil)
