package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/snapshot"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) ListAll(ctx context.Context) ([]snapshot.StagedRange, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]snapshot.StagedRange)
	return rows, args.Error(1)
}

func (m *Repository) ReplaceAll(ctx context.Context, rows []snapshot.StagedRange) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Repository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
