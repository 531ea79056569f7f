package audit

import (
	"context"
	"testing"
	"time"
)

func TestAppendFillsDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	err := svc.LogAdminAction(context.Background(), "admin-1", "ADMIN", "10.0.0.1", "POST /v1/admin/leads/allocate", "")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("defaults not filled: %+v", e)
	}
	if e.Type != EventTypeAdminAction || e.Action != "POST /v1/admin/leads/allocate" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestAppendRejectsEmptyAction(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Append(context.Background(), Event{Type: EventTypeAdminAction}); err != ErrInvalidEvent {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}
