package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entries []subscription.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*subscription.Entry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*subscription.Entry)
	return entry, args.Error(1)
}

func (m *Repository) ListAll(ctx context.Context) ([]subscription.Entry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]subscription.Entry)
	return entries, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]subscription.Entry, error) {
	args := m.Called(ctx, offset, limit)
	entries, _ := args.Get(0).([]subscription.Entry)
	return entries, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
