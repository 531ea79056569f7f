package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("pricing: channel not found")
	ErrDuplicateName   = errors.New("pricing: channel name already exists")
	ErrInvalidArgument = errors.New("pricing: invalid argument")
)

// Service manages the advertising channel price table.
//
// Contract:
// - Channel names are unique and act as the join key to leads (leads store
//   the channel NAME, not the id, so renames do not retag old leads).
// - Snapshot returns the full table as a plain map for capture-time lookups.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, name string, unitCost int) (Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" || unitCost < 0 {
		return Channel{}, ErrInvalidArgument
	}
	now := s.clock().UTC()
	ch := Channel{
		ID:        uuid.NewString(),
		Name:      name,
		UnitCost:  unitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, ch); err != nil {
		return Channel{}, err
	}
	return ch, nil
}

func (s *Service) Update(ctx context.Context, id, name string, unitCost int) (Channel, error) {
	ch, err := s.repo.Get(ctx, id)
	if err != nil {
		return Channel{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		ch.Name = name
	}
	if unitCost >= 0 {
		ch.UnitCost = unitCost
	}
	ch.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, ch); err != nil {
		return Channel{}, err
	}
	return ch, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Channel, error) {
	return s.repo.List(ctx)
}

// UnitCost resolves one channel's cost by name; unknown channels cost 0.
func (s *Service) UnitCost(ctx context.Context, name string) (int, error) {
	ch, ok, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return ch.UnitCost, nil
}

// Snapshot returns the whole price table keyed by channel name. This is the
// lead capture path's PriceSource.
func (s *Service) Snapshot(ctx context.Context) (map[string]int, error) {
	channels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]int, len(channels))
	for _, ch := range channels {
		m[ch.Name] = ch.UnitCost
	}
	return m, nil
}
