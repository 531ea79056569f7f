package settings

import "time"

// Kind names one admin-managed vocabulary. Labels feed dropdowns in the
// agent UI and end up in free-text lead fields (detailReason, status), so
// deleting an entry never rewrites leads that already reference it.
type Kind string

const (
	// KindFailureReason lists the selectable failure reasons (요금부담 ...).
	KindFailureReason Kind = "failure_reason"

	// KindCustomStatus lists extra display statuses beyond the built-in
	// vocabulary. The statistics buckets ignore unknown statuses by design;
	// these labels are presentation-only.
	KindCustomStatus Kind = "custom_status"
)

// Entry is one label in one vocabulary. Labels are unique per kind.
type Entry struct {
	ID        string    `json:"id" db:"id"`
	Kind      Kind      `json:"kind" db:"kind"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
