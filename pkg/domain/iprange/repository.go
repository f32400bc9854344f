package iprange

import (
	"context"
	"time"
)

// Filter narrows store listings for the admin API.
type Filter struct {
	Component      string
	Region         string
	IncludeDeleted bool
	Offset         int
	Limit          int
}

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=ip_range_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	ListActive(ctx context.Context) ([]IPRange, error)
	ListActiveByScope(ctx context.Context, component, region string) ([]IPRange, error)
	List(ctx context.Context, filter Filter) ([]IPRange, error)
	// MarkDeleted flips the given rows to deleted in a single transaction.
	MarkDeleted(ctx context.Context, keys []Key, at time.Time) error
	// Upsert inserts new rows and revives previously deleted ones in a
	// single transaction.
	Upsert(ctx context.Context, ranges []IPRange) error
}
