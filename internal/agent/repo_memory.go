package agent

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
type MemoryRepo struct {
	mu     sync.Mutex
	agents map[string]Agent
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{agents: make(map[string]Agent)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Agent) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.agents {
		if existing.Username == a.Username {
			return ErrDuplicateUsername
		}
	}
	r.agents[a.ID] = a
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Agent, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[id]
	if !ok {
		return Agent{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) FindByUsername(ctx context.Context, username string) (Agent, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.agents {
		if a.Username == username {
			return a, true, nil
		}
	}
	return Agent{}, false, nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Agent) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[a.ID]; !ok {
		return ErrNotFound
	}
	r.agents[a.ID] = a
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return ErrNotFound
	}
	delete(r.agents, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Agent, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
