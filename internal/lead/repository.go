package lead

import "context"

// Filter narrows List results. Empty fields are ignored.
//
// Visibility scoping (agent sees own + pool) is decided by the service and
// expressed through OwnerID/IncludePool; repositories do not know about roles.
type Filter struct {
	OwnerID     string
	IncludePool bool
	Platform    string
	Status      string
}

// Repository is the persistence contract for the lead aggregate and its
// consultation history.
//
// Notes for implementations:
// - Create/Update/Delete operate on single rows; no cross-row transactions
//   are required by callers (last-write-wins by design).
// - AppendLog is append-only; logs are removed only via lead delete cascade.
type Repository interface {
	Create(ctx context.Context, l Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	Update(ctx context.Context, l Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]Lead, error)

	// FindByPhone matches an exact normalized phone. When duplicates exist
	// the most recently created row wins.
	FindByPhone(ctx context.Context, normalized string) (Lead, bool, error)

	// FindByPhoneSuffix matches a stored phone containing the given digit
	// suffix (inbound SMS correlation).
	FindByPhoneSuffix(ctx context.Context, suffix string) (Lead, bool, error)

	// SetOwnerStatus points a lead at an owner and rewrites its status in one
	// single-row update. Returns false when the lead does not exist.
	SetOwnerStatus(ctx context.Context, id, ownerID, status string) (bool, error)

	// SetAdCostByPlatform rewrites ad_cost for every lead on a platform,
	// optionally only where ad_cost is still unset. Returns rows affected.
	SetAdCostByPlatform(ctx context.Context, platform string, cost int, onlyUnset bool) (int64, error)

	AppendLog(ctx context.Context, e LogEntry) error
	ListLogs(ctx context.Context, leadID string) ([]LogEntry, error)
}
