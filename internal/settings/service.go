package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("settings: entry not found")
	ErrDuplicateLabel  = errors.New("settings: label already exists")
	ErrInvalidArgument = errors.New("settings: invalid argument")
)

// Service manages the admin-curated vocabularies.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Add inserts a label, idempotently: adding an existing label returns the
// existing entry instead of failing.
func (s *Service) Add(ctx context.Context, kind Kind, label string) (Entry, error) {
	if !validKind(kind) {
		return Entry{}, ErrInvalidArgument
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Entry{}, ErrInvalidArgument
	}

	if existing, found, err := s.repo.FindByLabel(ctx, kind, label); err != nil {
		return Entry{}, err
	} else if found {
		return existing, nil
	}

	e := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Label:     label,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicateLabel) {
			// Lost a race with a concurrent add; the label exists now.
			if existing, found, ferr := s.repo.FindByLabel(ctx, kind, label); ferr == nil && found {
				return existing, nil
			}
		}
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	if !validKind(kind) {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, kind)
}

func validKind(k Kind) bool {
	return k == KindFailureReason || k == KindCustomStatus
}
