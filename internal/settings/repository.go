package settings

import "context"

// Repository persists vocabulary entries; (kind, label) is unique.
type Repository interface {
	Create(ctx context.Context, e Entry) error
	FindByLabel(ctx context.Context, kind Kind, label string) (Entry, bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, kind Kind) ([]Entry, error)
}
