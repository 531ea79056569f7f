package audit

import "time"

// Event is an immutable, append-only audit log record of a privileged
// mutation: AS decisions, bulk allocations, channel cost rewrites, account
// management.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; do not block critical flows on
//   audit failures.

type Event struct {
	ID string `json:"id" db:"id"`

	Type EventType `json:"type" db:"type"`

	// ActorID is the authenticated user causing the event.
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Action is the mutation performed, recorded as "METHOD path".
	Action string `json:"action" db:"action"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeAdminAction EventType = "admin_action"
)
