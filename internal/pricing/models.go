package pricing

import "time"

// Channel is one advertising platform and its current per-lead unit cost.
// Amounts are whole KRW using int; a lead inherits the channel's cost at
// capture time, so editing a channel never rewrites history by itself
// (the explicit mass-apply operation does that).
type Channel struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// UnitCost is the ad spend attributed to one captured lead.
	UnitCost int `json:"unit_cost" db:"unit_cost"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
