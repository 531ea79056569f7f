package settings

import (
	"context"
	"testing"
)

func TestAddIsIdempotent(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	first, err := svc.Add(context.Background(), KindFailureReason, "요금부담")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := svc.Add(context.Background(), KindFailureReason, "요금부담")
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("re-adding must return the existing entry, got %q vs %q", first.ID, second.ID)
	}

	entries, _ := svc.List(context.Background(), KindFailureReason)
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(entries))
	}
}

func TestKindsAreIsolated(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Add(context.Background(), KindFailureReason, "요금부담"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(context.Background(), KindCustomStatus, "보류"); err != nil {
		t.Fatalf("add: %v", err)
	}

	statuses, _ := svc.List(context.Background(), KindCustomStatus)
	if len(statuses) != 1 || statuses[0].Label != "보류" {
		t.Fatalf("unexpected custom statuses: %+v", statuses)
	}
}

func TestAddValidatesInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Add(context.Background(), KindFailureReason, "  "); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for blank label, got %v", err)
	}
	if _, err := svc.Add(context.Background(), Kind("unknown"), "x"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for unknown kind, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	e, err := svc.Add(context.Background(), KindFailureReason, "요금부담")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(context.Background(), e.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(context.Background(), e.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
