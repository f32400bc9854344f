package snapshot

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=snapshot_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	ListAll(ctx context.Context) ([]StagedRange, error)
	// ReplaceAll swaps the staging table content in a single transaction.
	ReplaceAll(ctx context.Context, rows []StagedRange) error
	Count(ctx context.Context) (int64, error)
}
