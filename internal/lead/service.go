package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/phone"
	"crm-platform/internal/rbac"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("lead: not found")
	ErrInvalidArgument = errors.New("lead: invalid argument")
)

// PriceSource supplies the current ad-channel unit costs as a read-only
// snapshot (platform name -> unit cost). Fetched fresh per operation; never
// cached inside this service.
type PriceSource interface {
	Snapshot(ctx context.Context) (map[string]int, error)
}

// Service mediates every lead mutation: ownership claims, status
// transitions, bulk operations and the consultation history.
//
// Concurrency discipline: claims are last-write-wins on a single row. Two
// agents racing for the same lead is an accepted outcome, not a bug; the
// store's single-row update bounds the race.
type Service struct {
	repo   Repository
	prices PriceSource
	clock  func() time.Time
}

func NewService(repo Repository, prices PriceSource) *Service {
	return &Service{repo: repo, prices: prices, clock: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (Lead, error) {
	if id == "" {
		return Lead{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, id)
}

// ListForActor applies role-based visibility: ADMIN sees all leads, an agent
// sees only leads they own plus the unassigned pool.
func (s *Service) ListForActor(ctx context.Context, actorID, role string, f Filter) ([]Lead, error) {
	if !rbac.IsAdmin(role) {
		f.OwnerID = actorID
		f.IncludePool = true
	}
	return s.repo.List(ctx, f)
}

// CaptureRequest creates a single lead from an inbound source (landing page,
// manual entry). Phone is required; everything else defaults.
type CaptureRequest struct {
	Name     string
	Phone    string
	Platform string
	OwnerID  string
	Rank     int
}

func (s *Service) Capture(ctx context.Context, req CaptureRequest) (Lead, error) {
	normalized := phone.Normalize(req.Phone)
	if normalized == "" {
		return Lead{}, ErrInvalidArgument
	}

	adCost := 0
	if req.Platform != "" && s.prices != nil {
		if m, err := s.prices.Snapshot(ctx); err == nil {
			adCost = m[req.Platform]
		}
	}

	now := s.clock().UTC()
	l := Lead{
		ID:         uuid.NewString(),
		Name:       defaultName(req.Name),
		Phone:      normalized,
		Platform:   req.Platform,
		Status:     StatusUnworked,
		Rank:       clampRank(req.Rank),
		OwnerID:    req.OwnerID,
		AdCost:     adCost,
		UploadDate: now.Format("2006-01-02"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

// Claim points a lead at an agent and requeues it. No precondition on the
// current owner: claiming an already-owned lead re-points it (idempotent
// for the same agent, last-write-wins across agents).
func (s *Service) Claim(ctx context.Context, leadID, agentID string) (Lead, error) {
	if leadID == "" || agentID == "" {
		return Lead{}, ErrInvalidArgument
	}
	ok, err := s.repo.SetOwnerStatus(ctx, leadID, agentID, StatusRequeued)
	if err != nil {
		return Lead{}, err
	}
	if !ok {
		return Lead{}, ErrNotFound
	}
	return s.repo.Get(ctx, leadID)
}

// BulkAllocate assigns many leads to one agent. Best-effort: unknown ids are
// skipped silently and the affected count is returned. No rollback.
func (s *Service) BulkAllocate(ctx context.Context, leadIDs []string, agentID string) (int, error) {
	if len(leadIDs) == 0 || agentID == "" {
		return 0, ErrInvalidArgument
	}
	affected := 0
	for _, id := range leadIDs {
		if id == "" {
			continue
		}
		ok, err := s.repo.SetOwnerStatus(ctx, id, agentID, StatusRequeued)
		if err != nil {
			// Per-row independence: keep going.
			continue
		}
		if ok {
			affected++
		}
	}
	return affected, nil
}

// ApproveAS marks a lead AS-approved, which removes it from every revenue
// and ad-cost statistic.
func (s *Service) ApproveAS(ctx context.Context, leadID string) (Lead, error) {
	l, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return Lead{}, err
	}
	l.IsASApproved = true
	l.Status = StatusASApproved
	l.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

// RejectAS reverses an AS request: the lead returns to the default unworked
// state and the AS reason is cleared.
func (s *Service) RejectAS(ctx context.Context, leadID string) (Lead, error) {
	l, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return Lead{}, err
	}
	l.IsASApproved = false
	l.Status = StatusUnworked
	l.ASReason = ""
	l.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

type ChatOutcome string

const (
	// ChatOpened: the lead already belongs to the requesting agent.
	ChatOpened ChatOutcome = "opened"
	// ChatClaimed: the lead was unowned and has been claimed.
	ChatClaimed ChatOutcome = "claimed"
	// ChatOwnedByOther: read-only view; the lead is not mutated.
	ChatOwnedByOther ChatOutcome = "owned_by_other"
	// ChatCreated: no lead matched the number; a new one was provisioned.
	ChatCreated ChatOutcome = "created"
)

type ChatResolution struct {
	Lead     Lead        `json:"lead"`
	Outcome  ChatOutcome `json:"outcome"`
	ReadOnly bool        `json:"read_only"`
}

// StartChat resolves a raw phone number to a workable lead for the
// requesting agent (call-popup / chat-open path).
func (s *Service) StartChat(ctx context.Context, rawPhone, agentID string) (ChatResolution, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" || agentID == "" {
		return ChatResolution{}, ErrInvalidArgument
	}

	l, found, err := s.repo.FindByPhone(ctx, normalized)
	if err != nil {
		return ChatResolution{}, err
	}

	if found {
		switch {
		case l.OwnerID == "":
			claimed, err := s.Claim(ctx, l.ID, agentID)
			if err != nil {
				return ChatResolution{}, err
			}
			return ChatResolution{Lead: claimed, Outcome: ChatClaimed}, nil
		case l.OwnerID == agentID:
			return ChatResolution{Lead: l, Outcome: ChatOpened}, nil
		default:
			return ChatResolution{Lead: l, Outcome: ChatOwnedByOther, ReadOnly: true}, nil
		}
	}

	created, err := s.Capture(ctx, CaptureRequest{Phone: normalized, OwnerID: agentID})
	if err != nil {
		return ChatResolution{}, err
	}
	_ = s.appendSystemNote(ctx, created.ID, "상담원 채팅 시작으로 신규 등록")
	return ChatResolution{Lead: created, Outcome: ChatCreated}, nil
}

// UploadRecord is one row of a bulk import.
type UploadRecord struct {
	Phone      string `json:"phone"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Status     string `json:"status"`
	OwnerID    string `json:"owner_id"`
	AdCost     int    `json:"ad_cost"`
	UploadDate string `json:"upload_date"`
	LastMemo   string `json:"last_memo"`
}

// BulkUpload creates one lead per record. Records are independent: a bad row
// never aborts the batch. Rows with an empty phone are skipped. When a row
// carries no explicit ad cost, the channel's configured unit cost applies
// (else 0). Returns the number of leads created.
func (s *Service) BulkUpload(ctx context.Context, records []UploadRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	priceMap := map[string]int{}
	if s.prices != nil {
		if m, err := s.prices.Snapshot(ctx); err == nil {
			priceMap = m
		}
	}

	now := s.clock().UTC()
	created := 0
	for _, rec := range records {
		normalized := phone.Normalize(rec.Phone)
		if normalized == "" {
			continue
		}

		cost := rec.AdCost
		if cost <= 0 {
			cost = priceMap[rec.Platform]
		}

		status := strings.TrimSpace(rec.Status)
		if status == "" {
			status = StatusUnworked
		}
		uploadDate := strings.TrimSpace(rec.UploadDate)
		if uploadDate == "" {
			uploadDate = now.Format("2006-01-02")
		}

		l := Lead{
			ID:         uuid.NewString(),
			Name:       defaultName(rec.Name),
			Phone:      normalized,
			Platform:   rec.Platform,
			Status:     status,
			Rank:       1,
			OwnerID:    rec.OwnerID,
			AdCost:     cost,
			UploadDate: uploadDate,
			LastMemo:   rec.LastMemo,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, l); err != nil {
			continue
		}
		created++
	}
	return created, nil
}

// ApplyChannelCosts rewrites ad_cost for every lead to its channel's current
// unit cost. With onlyUnset, only leads whose ad_cost is still 0 are touched.
// This is an explicit mass correction, never an automatic trigger.
func (s *Service) ApplyChannelCosts(ctx context.Context, onlyUnset bool) (int64, error) {
	if s.prices == nil {
		return 0, ErrInvalidArgument
	}
	m, err := s.prices.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for name, cost := range m {
		n, err := s.repo.SetAdCostByPlatform(ctx, name, cost, onlyUnset)
		if err != nil {
			continue
		}
		total += n
	}
	return total, nil
}

// UpdatePatch is a partial update; nil fields are left untouched.
type UpdatePatch struct {
	Name              *string `json:"name"`
	Platform          *string `json:"platform"`
	Status            *string `json:"status"`
	Rank              *int    `json:"rank"`
	PolicyAmount      *int    `json:"policy_amount"`
	AgentPolicyAmount *int    `json:"agent_policy_amount"`
	SupportAmount     *int    `json:"support_amount"`
	AdCost            *int    `json:"ad_cost"`
	CallbackSchedule  *string `json:"callback_schedule"`
	DetailReason      *string `json:"detail_reason"`
	ASReason          *string `json:"as_reason"`
	ProductInfo       *string `json:"product_info"`
	InstalledDate     *string `json:"installed_date"`
	AdditionalInfo    *string `json:"additional_info"`
	UploadDate        *string `json:"upload_date"`
}

func (s *Service) Update(ctx context.Context, leadID string, p UpdatePatch) (Lead, error) {
	l, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return Lead{}, err
	}

	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Platform != nil {
		l.Platform = *p.Platform
	}
	if p.Status != nil && *p.Status != "" {
		l.Status = *p.Status
	}
	if p.Rank != nil {
		l.Rank = clampRank(*p.Rank)
	}
	if p.PolicyAmount != nil {
		l.PolicyAmount = *p.PolicyAmount
	}
	if p.AgentPolicyAmount != nil {
		l.AgentPolicyAmount = *p.AgentPolicyAmount
	}
	if p.SupportAmount != nil {
		l.SupportAmount = *p.SupportAmount
	}
	if p.AdCost != nil {
		l.AdCost = *p.AdCost
	}
	if p.CallbackSchedule != nil {
		l.CallbackSchedule = *p.CallbackSchedule
	}
	if p.DetailReason != nil {
		l.DetailReason = *p.DetailReason
	}
	if p.ASReason != nil {
		l.ASReason = *p.ASReason
	}
	if p.ProductInfo != nil {
		l.ProductInfo = *p.ProductInfo
	}
	if p.InstalledDate != nil {
		l.InstalledDate = *p.InstalledDate
	}
	if p.AdditionalInfo != nil {
		l.AdditionalInfo = *p.AdditionalInfo
	}
	if p.UploadDate != nil && *p.UploadDate != "" {
		l.UploadDate = *p.UploadDate
	}

	l.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, leadID string) error {
	if leadID == "" {
		return ErrInvalidArgument
	}
	return s.repo.Delete(ctx, leadID)
}

// AddLog appends a consultation record and mirrors its content into the
// lead's last_memo for list views.
func (s *Service) AddLog(ctx context.Context, leadID, writerID, content string) (LogEntry, error) {
	if leadID == "" || writerID == "" || strings.TrimSpace(content) == "" {
		return LogEntry{}, ErrInvalidArgument
	}
	l, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return LogEntry{}, err
	}

	e := LogEntry{
		ID:        uuid.NewString(),
		LeadID:    l.ID,
		WriterID:  writerID,
		Content:   content,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.repo.AppendLog(ctx, e); err != nil {
		return LogEntry{}, err
	}

	l.LastMemo = content
	l.UpdatedAt = e.CreatedAt
	// Best-effort mirror; the log row is the source of truth.
	_ = s.repo.Update(ctx, l)
	return e, nil
}

func (s *Service) Logs(ctx context.Context, leadID string) ([]LogEntry, error) {
	if leadID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListLogs(ctx, leadID)
}

func (s *Service) appendSystemNote(ctx context.Context, leadID, content string) error {
	return s.repo.AppendLog(ctx, LogEntry{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Content:   content,
		CreatedAt: s.clock().UTC(),
	})
}

func defaultName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "이름없음"
	}
	return name
}

func clampRank(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
