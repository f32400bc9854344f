package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/iprange"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) ListActive(ctx context.Context) ([]iprange.IPRange, error) {
	args := m.Called(ctx)
	ranges, _ := args.Get(0).([]iprange.IPRange)
	return ranges, args.Error(1)
}

func (m *Repository) ListActiveByScope(ctx context.Context, component, region string) ([]iprange.IPRange, error) {
	args := m.Called(ctx, component, region)
	ranges, _ := args.Get(0).([]iprange.IPRange)
	return ranges, args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter iprange.Filter) ([]iprange.IPRange, error) {
	args := m.Called(ctx, filter)
	ranges, _ := args.Get(0).([]iprange.IPRange)
	return ranges, args.Error(1)
}

func (m *Repository) MarkDeleted(ctx context.Context, keys []iprange.Key, at time.Time) error {
	args := m.Called(ctx, keys, at)
	return args.Error(0)
}

func (m *Repository) Upsert(ctx context.Context, ranges []iprange.IPRange) error {
	args := m.Called(ctx, ranges)
	return args.Error(0)
}
