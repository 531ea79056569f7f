package agent

import "context"

// Repository abstracts agent persistence. Usernames are unique.
type Repository interface {
	Create(ctx context.Context, a Agent) error
	Get(ctx context.Context, id string) (Agent, error)
	FindByUsername(ctx context.Context, username string) (Agent, bool, error)
	Update(ctx context.Context, a Agent) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Agent, error)
}
