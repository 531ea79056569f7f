package sms

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
type MemoryRepo struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Append(ctx context.Context, m Message) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, id string, status Status) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) ListByLead(ctx context.Context, leadID string) ([]Message, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepo) HasRecentInbound(ctx context.Context, content string, since time.Time) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Direction == DirectionIn && m.Content == content && !m.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
