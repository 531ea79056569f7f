package settings

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, e Entry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.Kind == e.Kind && existing.Label == e.Label {
			return ErrDuplicateLabel
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryRepo) FindByLabel(ctx context.Context, kind Kind, label string) (Entry, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Kind == kind && e.Label == label {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, kind Kind) ([]Entry, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}
