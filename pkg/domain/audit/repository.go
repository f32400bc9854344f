package audit

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows audit listings; zero values mean no constraint.
type Filter struct {
	Action         string
	SubscriptionID string
	RunID          *uuid.UUID
	Offset         int
	Limit          int
}

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=audit_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Save(ctx context.Context, record *DispatchRecord) error
	List(ctx context.Context, filter Filter) ([]DispatchRecord, error)
}
