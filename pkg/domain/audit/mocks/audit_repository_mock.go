package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/audit"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, record *audit.DispatchRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *Repository) List(ctx context.Context, filter audit.Filter) ([]audit.DispatchRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]audit.DispatchRecord)
	return records, args.Error(1)
}
