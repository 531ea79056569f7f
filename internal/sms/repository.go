package sms

import (
	"context"
	"time"
)

// Repository persists the SMS log.
type Repository interface {
	Append(ctx context.Context, m Message) error

	// SetStatus finalizes an outbound row. Returns false when the id is
	// unknown.
	SetStatus(ctx context.Context, id string, status Status) (bool, error)

	ListByLead(ctx context.Context, leadID string) ([]Message, error)

	// HasRecentInbound reports whether an inbound row with this exact
	// content exists at or after since. This is the authoritative dedupe
	// check for bridge redeliveries.
	HasRecentInbound(ctx context.Context, content string, since time.Time) (bool, error)
}
