package lead

import "time"

// Lead is the customer aggregate tracked through the sales funnel.
//
// Invariants:
// - Phone is normalized at every write boundary (internal/phone).
// - Phone is NOT globally unique; bulk-import paths tolerate duplicates by design.
// - OwnerID empty means "in the shared pool", visible to every agent.
// - Status is an open string; only the well-known values in status.go drive
//   business logic. Admin-defined labels are display-only.
// - Every mutation is a single-row write; last write wins.
type Lead struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`

	// Platform is the free-text acquisition channel label ("네이버", "당근", ...).
	Platform string `json:"platform" db:"platform"`

	Status string `json:"status" db:"status"`

	// Rank is lead quality, 1..5.
	Rank int `json:"rank" db:"rank"`

	// OwnerID references the owning agent; empty = unassigned pool.
	OwnerID string `json:"owner_id,omitempty" db:"owner_id"`

	// Amounts are in units of 10,000 KRW when converted to revenue;
	// AdCost is in plain currency units.
	PolicyAmount      int `json:"policy_amount" db:"policy_amount"`
	AgentPolicyAmount int `json:"agent_policy_amount" db:"agent_policy_amount"`
	SupportAmount     int `json:"support_amount" db:"support_amount"`
	AdCost            int `json:"ad_cost" db:"ad_cost"`

	// UploadDate is the date the lead entered the system ("2026-01-12").
	// Statistics filter on this field, not on CreatedAt.
	UploadDate       string `json:"upload_date" db:"upload_date"`
	CallbackSchedule string `json:"callback_schedule,omitempty" db:"callback_schedule"`

	LastMemo     string `json:"last_memo,omitempty" db:"last_memo"`
	DetailReason string `json:"detail_reason,omitempty" db:"detail_reason"`
	ASReason     string `json:"as_reason,omitempty" db:"as_reason"`

	// IsASApproved excludes the lead from every revenue/ad-cost aggregate.
	IsASApproved bool `json:"is_as_approved" db:"is_as_approved"`

	ProductInfo    string `json:"product_info,omitempty" db:"product_info"`
	InstalledDate  string `json:"installed_date,omitempty" db:"installed_date"`
	AdditionalInfo string `json:"additional_info,omitempty" db:"additional_info"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RevenueBasis is the settlement revenue for this lead in currency units.
func (l Lead) RevenueBasis() int64 {
	return int64(l.AgentPolicyAmount-l.SupportAmount) * 10000
}

// NetProfit is revenue minus the ad spend already applied to this lead.
func (l Lead) NetProfit() int64 {
	return int64(l.PolicyAmount-l.SupportAmount)*10000 - int64(l.AdCost)
}

// LogEntry is an immutable consultation history record attached to a lead.
// WriterID is empty for system-generated notes.
type LogEntry struct {
	ID        string    `json:"id" db:"id"`
	LeadID    string    `json:"lead_id" db:"lead_id"`
	WriterID  string    `json:"writer_id,omitempty" db:"writer_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
