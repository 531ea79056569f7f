package sms

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/lead"
	"crm-platform/internal/phone"
	"crm-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound        = errors.New("sms: lead not found")
	ErrInvalidArgument = errors.New("sms: invalid argument")
)

// dedupeWindow bounds inbound redelivery suppression: two inbound messages
// with identical content inside this window store exactly one row.
const dedupeWindow = 10 * time.Second

// placeholderName is given to leads auto-provisioned from inbound SMS.
const placeholderName = "문자수신"

// LeadStore is the slice of lead persistence the adapter needs.
// lead.Repository satisfies it.
type LeadStore interface {
	Get(ctx context.Context, id string) (lead.Lead, error)
	FindByPhoneSuffix(ctx context.Context, suffix string) (lead.Lead, bool, error)
	Create(ctx context.Context, l lead.Lead) error
	Update(ctx context.Context, l lead.Lead) error
}

// GatewaySource resolves an agent's bound bridge device.
type GatewaySource interface {
	GatewayConfig(ctx context.Context, agentID string) (GatewayConfig, error)
}

// Service is the SMS bridge adapter: outbound dispatch through per-agent
// gateway devices, inbound correlation back to leads.
//
// Delivery is best-effort by contract: a failed send is recorded as FAIL on
// the log row and reported in the response, never surfaced as an error.
type Service struct {
	repo     Repository
	bridge   Bridge
	leads    LeadStore
	gateways GatewaySource

	// rdb is optional. When present it provides the outbound per-agent
	// concurrency cap and the inbound dedupe fast path; the repository
	// check stays authoritative either way.
	rdb *redis.Client

	sendConcurrency int
	clock           func() time.Time
}

func NewService(repo Repository, bridge Bridge, leads LeadStore, gateways GatewaySource, rdb *redis.Client, sendConcurrency int) *Service {
	if sendConcurrency <= 0 {
		sendConcurrency = 3
	}
	return &Service{
		repo:            repo,
		bridge:          bridge,
		leads:           leads,
		gateways:        gateways,
		rdb:             rdb,
		sendConcurrency: sendConcurrency,
		clock:           time.Now,
	}
}

type SendRequest struct {
	LeadID     string
	AgentID    string
	Content    string
	Attachment string
}

// Send dispatches one outbound message. The PENDING row is written before
// the bridge attempt and survives every outcome; the returned message
// carries the final SUCCESS or FAIL status.
func (s *Service) Send(ctx context.Context, req SendRequest) (Message, error) {
	if req.LeadID == "" || req.AgentID == "" || strings.TrimSpace(req.Content) == "" {
		return Message{}, ErrInvalidArgument
	}

	l, err := s.leads.Get(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}

	gw, err := s.gateways.GatewayConfig(ctx, req.AgentID)
	if err != nil {
		return Message{}, err
	}

	m := Message{
		ID:         uuid.NewString(),
		LeadID:     l.ID,
		AgentID:    req.AgentID,
		Direction:  DirectionOut,
		Status:     StatusPending,
		Content:    req.Content,
		Attachment: req.Attachment,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.repo.Append(ctx, m); err != nil {
		return Message{}, err
	}

	m.Status = s.attempt(ctx, gw, phone.BridgeFormat(l.Phone), req.Content, req.AgentID)
	if _, err := s.repo.SetStatus(ctx, m.ID, m.Status); err != nil {
		return Message{}, err
	}
	return m, nil
}

// attempt runs the bridge call under the per-agent concurrency cap and maps
// every failure mode to FAIL.
func (s *Service) attempt(ctx context.Context, gw GatewayConfig, destination, content, agentID string) Status {
	if s.rdb != nil {
		key := "sms:send:" + agentID
		ok, err := utils.AcquireConcurrencyCap(ctx, s.rdb, key, s.sendConcurrency, 30*time.Second)
		if err == nil {
			if !ok {
				// Device saturated; the caller can retry.
				return StatusFail
			}
			defer func() { _ = utils.ReleaseConcurrencyCap(ctx, s.rdb, key) }()
		}
	}

	if err := s.bridge.Send(ctx, gw, destination, content); err != nil {
		return StatusFail
	}
	return StatusSuccess
}

// InboundResult reports what Receive did with one webhook delivery.
type InboundResult struct {
	// Deduplicated means the delivery was a redelivery inside the dedupe
	// window; nothing was stored.
	Deduplicated bool `json:"deduplicated"`

	// Provisioned means no lead matched the phone suffix and a new unowned
	// one was created.
	Provisioned bool `json:"provisioned"`

	// Requeued means the lead sat in no-answer and was flipped back to
	// follow-up.
	Requeued bool `json:"requeued"`

	LeadID  string  `json:"lead_id,omitempty"`
	Message Message `json:"message,omitempty"`
}

// Receive handles one inbound webhook delivery from the bridge.
func (s *Service) Receive(ctx context.Context, rawPhone, body string) (InboundResult, error) {
	if strings.TrimSpace(rawPhone) == "" || strings.TrimSpace(body) == "" {
		return InboundResult{}, ErrInvalidArgument
	}
	now := s.clock().UTC()

	// Fast-path dedupe in Redis. Best-effort: on a Redis error we fall
	// through to the repository check below, which is authoritative.
	if s.rdb != nil {
		sum := sha256.Sum256([]byte(body))
		key := "sms:in:" + hex.EncodeToString(sum[:])
		if claimed, err := utils.ClaimOnce(ctx, s.rdb, key, dedupeWindow); err == nil && !claimed {
			return InboundResult{Deduplicated: true}, nil
		}
	}

	dup, err := s.repo.HasRecentInbound(ctx, body, now.Add(-dedupeWindow))
	if err != nil {
		return InboundResult{}, err
	}
	if dup {
		return InboundResult{Deduplicated: true}, nil
	}

	normalized := phone.Normalize(rawPhone)
	suffix := phone.Suffix8(normalized)

	res := InboundResult{}
	l, found, err := s.leads.FindByPhoneSuffix(ctx, suffix)
	if err != nil {
		return InboundResult{}, err
	}
	if !found {
		l = lead.Lead{
			ID:         uuid.NewString(),
			Name:       placeholderName,
			Phone:      normalized,
			Status:     lead.StatusUnworked,
			Rank:       1,
			UploadDate: now.Format("2006-01-02"),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.leads.Create(ctx, l); err != nil {
			return InboundResult{}, err
		}
		res.Provisioned = true
	}

	m := Message{
		ID:        uuid.NewString(),
		LeadID:    l.ID,
		Direction: DirectionIn,
		Status:    StatusReceived,
		Content:   body,
		CreatedAt: now,
	}
	if err := s.repo.Append(ctx, m); err != nil {
		return InboundResult{}, err
	}

	// The only automatic status mutation inbound SMS may trigger.
	if l.Status == lead.StatusNoAnswer {
		l.Status = lead.StatusRequeued
		l.UpdatedAt = now
		if err := s.leads.Update(ctx, l); err == nil {
			res.Requeued = true
		}
	}

	res.LeadID = l.ID
	res.Message = m
	return res, nil
}

// History returns the SMS log for one lead, oldest first.
func (s *Service) History(ctx context.Context, leadID string) ([]Message, error) {
	if leadID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByLead(ctx, leadID)
}
