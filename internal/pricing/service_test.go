package pricing

import (
	"context"
	"testing"
	"time"
)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo())
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc
}

func TestCreateAndSnapshot(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Create(context.Background(), "네이버", 30000); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "당근", 15000); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap["네이버"] != 30000 || snap["당근"] != 15000 {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), "네이버", 30000); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "네이버", 40000); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), "  ", 100); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for blank name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "네이버", -1); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for negative cost, got %v", err)
	}
}

func TestUpdateChangesCostWithoutRetagging(t *testing.T) {
	svc := newTestService()
	ch, err := svc.Create(context.Background(), "네이버", 30000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), ch.ID, "", 45000)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "네이버" || updated.UnitCost != 45000 {
		t.Fatalf("unexpected channel: %+v", updated)
	}
}

func TestUnitCostUnknownChannelIsZero(t *testing.T) {
	svc := newTestService()
	cost, err := svc.UnitCost(context.Background(), "없는채널")
	if err != nil {
		t.Fatalf("unit cost: %v", err)
	}
	if cost != 0 {
		t.Fatalf("expected 0 for unknown channel, got %d", cost)
	}
}

func TestDeleteUnknownChannel(t *testing.T) {
	svc := newTestService()
	if err := svc.Delete(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
