package sms

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-platform/internal/lead"
)

type bridgeFunc func(ctx context.Context, gw GatewayConfig, destination, message string) error

func (f bridgeFunc) Send(ctx context.Context, gw GatewayConfig, destination, message string) error {
	return f(ctx, gw, destination, message)
}

type staticGateways map[string]GatewayConfig

func (g staticGateways) GatewayConfig(ctx context.Context, agentID string) (GatewayConfig, error) {
	return g[agentID], nil
}

type fixture struct {
	svc   *Service
	repo  *MemoryRepo
	leads *lead.MemoryRepo
	now   time.Time
}

func newFixture(bridge Bridge) *fixture {
	f := &fixture{
		repo:  NewMemoryRepo(),
		leads: lead.NewMemoryRepo(),
		now:   time.Unix(1700000000, 0).UTC(),
	}
	gws := staticGateways{"agent-1": {URL: "http://device.local/send", Username: "u", Password: "p"}}
	f.svc = NewService(f.repo, bridge, f.leads, gws, nil, 0)
	f.svc.clock = func() time.Time { return f.now }
	return f
}

func TestSendSuccess(t *testing.T) {
	var gotDest string
	f := newFixture(bridgeFunc(func(ctx context.Context, gw GatewayConfig, destination, message string) error {
		gotDest = destination
		return nil
	}))
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678"})

	m, err := f.svc.Send(context.Background(), SendRequest{LeadID: "l1", AgentID: "agent-1", Content: "안내드립니다"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Status != StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", m.Status)
	}
	if gotDest != "+821012345678" {
		t.Fatalf("expected bridge-format destination, got %q", gotDest)
	}

	history, _ := f.svc.History(context.Background(), "l1")
	if len(history) != 1 || history[0].Status != StatusSuccess || history[0].Direction != DirectionOut {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSendFailureIsRecordedNotRaised(t *testing.T) {
	f := newFixture(bridgeFunc(func(ctx context.Context, gw GatewayConfig, destination, message string) error {
		return errors.New("connection refused")
	}))
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678"})

	m, err := f.svc.Send(context.Background(), SendRequest{LeadID: "l1", AgentID: "agent-1", Content: "안내"})
	if err != nil {
		t.Fatalf("delivery failure must not be an error: %v", err)
	}
	if m.Status != StatusFail {
		t.Fatalf("expected FAIL, got %s", m.Status)
	}

	// The row persists with its failure recorded.
	history, _ := f.svc.History(context.Background(), "l1")
	if len(history) != 1 || history[0].Status != StatusFail {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSendUnknownLead(t *testing.T) {
	f := newFixture(bridgeFunc(func(ctx context.Context, gw GatewayConfig, destination, message string) error {
		return nil
	}))
	if _, err := f.svc.Send(context.Background(), SendRequest{LeadID: "nope", AgentID: "agent-1", Content: "x"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReceiveDedupesWithinWindow(t *testing.T) {
	f := newFixture(nil)
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678"})

	first, err := f.svc.Receive(context.Background(), "010-1234-5678", "상담 원해요")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if first.Deduplicated {
		t.Fatalf("first delivery must not dedupe")
	}

	f.now = f.now.Add(5 * time.Second)
	second, err := f.svc.Receive(context.Background(), "010-1234-5678", "상담 원해요")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !second.Deduplicated {
		t.Fatalf("redelivery within window must dedupe")
	}

	history, _ := f.svc.History(context.Background(), "l1")
	if len(history) != 1 {
		t.Fatalf("expected exactly one stored IN row, got %d", len(history))
	}
}

func TestReceiveAcceptsSameContentAfterWindow(t *testing.T) {
	f := newFixture(nil)
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678"})

	if _, err := f.svc.Receive(context.Background(), "01012345678", "문의"); err != nil {
		t.Fatalf("receive: %v", err)
	}
	f.now = f.now.Add(11 * time.Second)
	res, err := f.svc.Receive(context.Background(), "01012345678", "문의")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if res.Deduplicated {
		t.Fatalf("same content outside the window is a new message")
	}
}

func TestReceiveMatchesBySuffix(t *testing.T) {
	f := newFixture(nil)
	// Stored with country code; webhook reports the local format.
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "821012345678"})

	res, err := f.svc.Receive(context.Background(), "010-1234-5678", "네 가능합니다")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if res.Provisioned || res.LeadID != "l1" {
		t.Fatalf("expected suffix match onto l1, got %+v", res)
	}
	if res.Message.Status != StatusReceived || res.Message.Direction != DirectionIn {
		t.Fatalf("unexpected message: %+v", res.Message)
	}
}

func TestReceiveAutoProvisionsUnknownNumber(t *testing.T) {
	f := newFixture(nil)

	res, err := f.svc.Receive(context.Background(), "010-9999-0000", "처음 문의드려요")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !res.Provisioned {
		t.Fatalf("expected auto-provision, got %+v", res)
	}

	l, err := f.leads.Get(context.Background(), res.LeadID)
	if err != nil {
		t.Fatalf("provisioned lead missing: %v", err)
	}
	if l.OwnerID != "" || l.Name != placeholderName || l.Status != lead.StatusUnworked {
		t.Fatalf("unexpected provisioned lead: %+v", l)
	}

	history, _ := f.svc.History(context.Background(), res.LeadID)
	if len(history) != 1 {
		t.Fatalf("expected one IN row for the new lead, got %d", len(history))
	}
}

func TestReceiveRequeuesNoAnswerLead(t *testing.T) {
	f := newFixture(nil)
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678", Status: lead.StatusNoAnswer})

	res, err := f.svc.Receive(context.Background(), "01012345678", "전화 못 받았어요")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !res.Requeued {
		t.Fatalf("expected requeue flag, got %+v", res)
	}
	l, _ := f.leads.Get(context.Background(), "l1")
	if l.Status != lead.StatusRequeued {
		t.Fatalf("expected status %s, got %s", lead.StatusRequeued, l.Status)
	}
}

func TestReceiveDoesNotTouchOtherStatuses(t *testing.T) {
	f := newFixture(nil)
	_ = f.leads.Create(context.Background(), lead.Lead{ID: "l1", Phone: "01012345678", Status: lead.StatusAccepted})

	res, err := f.svc.Receive(context.Background(), "01012345678", "감사합니다")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if res.Requeued {
		t.Fatalf("only no-answer flips, got %+v", res)
	}
	l, _ := f.leads.Get(context.Background(), "l1")
	if l.Status != lead.StatusAccepted {
		t.Fatalf("status changed unexpectedly to %s", l.Status)
	}
}

func TestReceiveRejectsMissingFields(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.svc.Receive(context.Background(), "", "내용"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := f.svc.Receive(context.Background(), "01012345678", "  "); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
