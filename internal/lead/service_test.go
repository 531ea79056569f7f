package lead

import (
	"context"
	"testing"
	"time"
)

type staticPrices map[string]int

func (p staticPrices) Snapshot(ctx context.Context) (map[string]int, error) { return p, nil }

func newTestService(prices staticPrices) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(repo, prices)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo
}

func TestClaimIsIdempotent(t *testing.T) {
	svc, repo := newTestService(nil)
	seed := Lead{ID: "l1", Phone: "01011112222", Status: StatusUnworked}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Claim(context.Background(), "l1", "agent-1")
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
		if got.OwnerID != "agent-1" || got.Status != StatusRequeued {
			t.Fatalf("claim %d: unexpected lead %+v", i, got)
		}
	}
}

func TestClaimOverwritesExistingOwner(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1", OwnerID: "agent-1", Status: StatusRequeued})

	got, err := svc.Claim(context.Background(), "l1", "agent-2")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.OwnerID != "agent-2" {
		t.Fatalf("expected last write to win, got owner %q", got.OwnerID)
	}
}

func TestClaimUnknownLead(t *testing.T) {
	svc, _ := newTestService(nil)
	if _, err := svc.Claim(context.Background(), "nope", "agent-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkAllocateSkipsUnknownIDs(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1"})
	_ = repo.Create(context.Background(), Lead{ID: "l2"})

	n, err := svc.BulkAllocate(context.Background(), []string{"l1", "missing", "l2"}, "agent-1")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 affected, got %d", n)
	}

	l1, _ := repo.Get(context.Background(), "l1")
	if l1.OwnerID != "agent-1" || l1.Status != StatusRequeued {
		t.Fatalf("unexpected l1: %+v", l1)
	}
}

func TestApproveAndRejectAS(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1", Status: StatusASRequested, ASReason: "요금부담"})

	approved, err := svc.ApproveAS(context.Background(), "l1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.IsASApproved || approved.Status != StatusASApproved {
		t.Fatalf("unexpected approved lead: %+v", approved)
	}

	rejected, err := svc.RejectAS(context.Background(), "l1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.IsASApproved || rejected.Status != StatusUnworked || rejected.ASReason != "" {
		t.Fatalf("unexpected rejected lead: %+v", rejected)
	}
}

func TestStartChatClaimsUnownedLead(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1", Phone: "01012345678", Status: StatusUnworked})

	res, err := svc.StartChat(context.Background(), "+82 10-1234-5678", "agent-1")
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}
	if res.Outcome != ChatClaimed {
		t.Fatalf("expected claimed, got %q", res.Outcome)
	}
	if res.Lead.OwnerID != "agent-1" {
		t.Fatalf("expected owner agent-1, got %q", res.Lead.OwnerID)
	}
}

func TestStartChatOwnLeadOpensWithoutMutation(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1", Phone: "01012345678", OwnerID: "agent-1", Status: StatusAccepted})

	res, err := svc.StartChat(context.Background(), "01012345678", "agent-1")
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}
	if res.Outcome != ChatOpened || res.ReadOnly {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.Lead.Status != StatusAccepted {
		t.Fatalf("status should not change, got %q", res.Lead.Status)
	}
}

func TestStartChatForeignLeadIsReadOnly(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1", Phone: "01012345678", OwnerID: "agent-2"})

	res, err := svc.StartChat(context.Background(), "01012345678", "agent-1")
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}
	if res.Outcome != ChatOwnedByOther || !res.ReadOnly {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	// Must not steal the lead.
	l, _ := repo.Get(context.Background(), "l1")
	if l.OwnerID != "agent-2" {
		t.Fatalf("owner changed to %q", l.OwnerID)
	}
}

func TestStartChatProvisionsUnknownNumber(t *testing.T) {
	svc, repo := newTestService(nil)

	res, err := svc.StartChat(context.Background(), "010-9999-8888", "agent-1")
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}
	if res.Outcome != ChatCreated {
		t.Fatalf("expected created, got %q", res.Outcome)
	}
	if res.Lead.OwnerID != "agent-1" || res.Lead.Phone != "01099998888" {
		t.Fatalf("unexpected lead: %+v", res.Lead)
	}
	logs, _ := repo.ListLogs(context.Background(), res.Lead.ID)
	if len(logs) != 1 || logs[0].WriterID != "" {
		t.Fatalf("expected one system note, got %+v", logs)
	}
}

func TestBulkUploadSkipsEmptyPhones(t *testing.T) {
	svc, _ := newTestService(nil)

	records := []UploadRecord{
		{Phone: "010-1111-0001", Name: "a"},
		{Phone: "010-1111-0002", Name: "b"},
		{Phone: "", Name: "no-phone"},
		{Phone: "010-1111-0003", Name: "c"},
		{Phone: "010-1111-0004", Name: "d"},
	}
	n, err := svc.BulkUpload(context.Background(), records)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 created, got %d", n)
	}
}

func TestBulkUploadAppliesChannelCostFallback(t *testing.T) {
	svc, repo := newTestService(staticPrices{"네이버": 30000})

	records := []UploadRecord{
		{Phone: "01011110001", Platform: "네이버"},
		{Phone: "01011110002", Platform: "네이버", AdCost: 5000},
		{Phone: "01011110003", Platform: "당근"},
	}
	if _, err := svc.BulkUpload(context.Background(), records); err != nil {
		t.Fatalf("upload: %v", err)
	}

	leads, _ := repo.List(context.Background(), Filter{})
	costs := map[string]int{}
	for _, l := range leads {
		costs[l.Phone] = l.AdCost
	}
	if costs["01011110001"] != 30000 {
		t.Fatalf("expected fallback cost 30000, got %d", costs["01011110001"])
	}
	if costs["01011110002"] != 5000 {
		t.Fatalf("explicit cost must win, got %d", costs["01011110002"])
	}
	if costs["01011110003"] != 0 {
		t.Fatalf("unknown platform must cost 0, got %d", costs["01011110003"])
	}
}

func TestBulkUploadToleratesDuplicatePhones(t *testing.T) {
	svc, _ := newTestService(nil)

	records := []UploadRecord{
		{Phone: "01011110001"},
		{Phone: "01011110001"},
	}
	n, err := svc.BulkUpload(context.Background(), records)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if n != 2 {
		t.Fatalf("duplicate phones are tolerated by design, got %d", n)
	}
}

func TestApplyChannelCosts(t *testing.T) {
	svc, repo := newTestService(staticPrices{"네이버": 40000})
	_ = repo.Create(context.Background(), Lead{ID: "l1", Platform: "네이버", AdCost: 0})
	_ = repo.Create(context.Background(), Lead{ID: "l2", Platform: "네이버", AdCost: 12345})
	_ = repo.Create(context.Background(), Lead{ID: "l3", Platform: "당근", AdCost: 0})

	n, err := svc.ApplyChannelCosts(context.Background(), true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 updated with onlyUnset, got %d", n)
	}

	n, err = svc.ApplyChannelCosts(context.Background(), false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 updated without onlyUnset, got %d", n)
	}
	l2, _ := repo.Get(context.Background(), "l2")
	if l2.AdCost != 40000 {
		t.Fatalf("expected 40000, got %d", l2.AdCost)
	}
}

func TestAddLogMirrorsLastMemo(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1"})

	e, err := svc.AddLog(context.Background(), "l1", "agent-1", "첫 상담 완료")
	if err != nil {
		t.Fatalf("add log: %v", err)
	}
	if e.WriterID != "agent-1" {
		t.Fatalf("unexpected writer: %q", e.WriterID)
	}
	l, _ := repo.Get(context.Background(), "l1")
	if l.LastMemo != "첫 상담 완료" {
		t.Fatalf("last memo not mirrored: %q", l.LastMemo)
	}
}

func TestAddLogRequiresWriterAndContent(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "l1"})

	if _, err := svc.AddLog(context.Background(), "l1", "", "x"); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.AddLog(context.Background(), "l1", "agent-1", "  "); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListForActorScopesAgents(t *testing.T) {
	svc, repo := newTestService(nil)
	_ = repo.Create(context.Background(), Lead{ID: "mine", OwnerID: "agent-1"})
	_ = repo.Create(context.Background(), Lead{ID: "pool"})
	_ = repo.Create(context.Background(), Lead{ID: "theirs", OwnerID: "agent-2"})

	mine, err := svc.ListForActor(context.Background(), "agent-1", "AGENT", Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("agent should see own + pool, got %d", len(mine))
	}

	all, err := svc.ListForActor(context.Background(), "admin-1", "ADMIN", Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin should see all, got %d", len(all))
	}
}
