package sms

import "time"

type Direction string

const (
	DirectionOut Direction = "OUT"
	DirectionIn  Direction = "IN"
)

type Status string

const (
	// StatusPending marks an outbound row created before the bridge attempt.
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFail    Status = "FAIL"
	// StatusReceived is the terminal status of every inbound row.
	StatusReceived Status = "RECEIVED"
)

// Message is one SMS log row. Append-only: an OUT row's status is mutated
// exactly once (PENDING to SUCCESS or FAIL), nothing else changes after
// creation.
type Message struct {
	ID         string    `json:"id" db:"id"`
	LeadID     string    `json:"lead_id" db:"lead_id"`
	AgentID    string    `json:"agent_id,omitempty" db:"agent_id"`
	Direction  Direction `json:"direction" db:"direction"`
	Status     Status    `json:"status" db:"status"`
	Content    string    `json:"content" db:"content"`
	Attachment string    `json:"attachment,omitempty" db:"attachment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
