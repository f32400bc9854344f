package subscription

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=subscription_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	// Save persists the entries; a duplicate firewall identity yields
	// domain.ErrAlreadyRegistered.
	Save(ctx context.Context, entries []Entry) error
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	List(ctx context.Context, offset, limit int) ([]Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
