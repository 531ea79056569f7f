package lead

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
//
// NOTE: This is not intended for production; replace with the Postgres
// implementation.
type MemoryRepo struct {
	mu    sync.Mutex
	leads map[string]Lead
	logs  []LogEntry

	// order preserves creation order so "most recent duplicate wins" is
	// deterministic.
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{leads: make(map[string]Lead)}
}

func (r *MemoryRepo) Create(ctx context.Context, l Lead) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[l.ID] = l
	r.order = append(r.order, l.ID)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepo) Update(ctx context.Context, l Lead) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[l.ID]; !ok {
		return ErrNotFound
	}
	r.leads[l.ID] = l
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return ErrNotFound
	}
	delete(r.leads, id)
	kept := r.logs[:0]
	for _, e := range r.logs {
		if e.LeadID != id {
			kept = append(kept, e)
		}
	}
	r.logs = kept
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Lead
	for _, id := range r.order {
		l, ok := r.leads[id]
		if !ok {
			continue
		}
		if f.OwnerID != "" {
			owned := l.OwnerID == f.OwnerID
			pooled := f.IncludePool && l.OwnerID == ""
			if !owned && !pooled {
				continue
			}
		}
		if f.Platform != "" && l.Platform != f.Platform {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, l)
	}
	// newest first, matching the Postgres ORDER BY created_at DESC
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) FindByPhone(ctx context.Context, normalized string) (Lead, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		l, ok := r.leads[r.order[i]]
		if ok && l.Phone == normalized {
			return l, true, nil
		}
	}
	return Lead{}, false, nil
}

func (r *MemoryRepo) FindByPhoneSuffix(ctx context.Context, suffix string) (Lead, bool, error) {
	_ = ctx
	if suffix == "" {
		return Lead{}, false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		l, ok := r.leads[r.order[i]]
		if ok && strings.Contains(l.Phone, suffix) {
			return l, true, nil
		}
	}
	return Lead{}, false, nil
}

func (r *MemoryRepo) SetOwnerStatus(ctx context.Context, id, ownerID, status string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return false, nil
	}
	l.OwnerID = ownerID
	l.Status = status
	r.leads[id] = l
	return true, nil
}

func (r *MemoryRepo) SetAdCostByPlatform(ctx context.Context, platform string, cost int, onlyUnset bool) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, l := range r.leads {
		if l.Platform != platform {
			continue
		}
		if onlyUnset && l.AdCost != 0 {
			continue
		}
		l.AdCost = cost
		r.leads[id] = l
		n++
	}
	return n, nil
}

func (r *MemoryRepo) AppendLog(ctx context.Context, e LogEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, e)
	return nil
}

func (r *MemoryRepo) ListLogs(ctx context.Context, leadID string) ([]LogEntry, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []LogEntry
	for _, e := range r.logs {
		if e.LeadID == leadID {
			out = append(out, e)
		}
	}
	return out, nil
}
