package pricing

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
type MemoryRepo struct {
	mu       sync.Mutex
	channels map[string]Channel
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{channels: make(map[string]Channel)}
}

func (r *MemoryRepo) Create(ctx context.Context, ch Channel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.channels {
		if existing.Name == ch.Name {
			return ErrDuplicateName
		}
	}
	r.channels[ch.ID] = ch
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Channel, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[id]
	if !ok {
		return Channel{}, ErrNotFound
	}
	return ch, nil
}

func (r *MemoryRepo) FindByName(ctx context.Context, name string) (Channel, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.channels {
		if ch.Name == name {
			return ch, true, nil
		}
	}
	return Channel{}, false, nil
}

func (r *MemoryRepo) Update(ctx context.Context, ch Channel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[ch.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.channels {
		if id != ch.ID && existing.Name == ch.Name {
			return ErrDuplicateName
		}
	}
	r.channels[ch.ID] = ch
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[id]; !ok {
		return ErrNotFound
	}
	delete(r.channels, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Channel, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
