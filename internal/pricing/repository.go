package pricing

import "context"

// Repository abstracts channel persistence.
// Names are unique; FindByName is the lookup path used at lead capture.
type Repository interface {
	Create(ctx context.Context, ch Channel) error
	Get(ctx context.Context, id string) (Channel, error)
	FindByName(ctx context.Context, name string) (Channel, bool, error)
	Update(ctx context.Context, ch Channel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Channel, error)
}
