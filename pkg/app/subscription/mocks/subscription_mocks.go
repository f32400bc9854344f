package mocks

import (
	"context"

	domainSubscription "github.com/autoshield/autoshield/pkg/domain/subscription"
	"github.com/autoshield/autoshield/pkg/handlers/http/request"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Creator struct {
	mock.Mock
}

func (m *Creator) Register(ctx context.Context, req *request.RegisterSubscriptionRequest) (*domainSubscription.Entry, error) {
	args := m.Called(ctx, req)
	entry, _ := args.Get(0).(*domainSubscription.Entry)
	return entry, args.Error(1)
}

type Finder struct {
	mock.Mock
}

func (m *Finder) Get(ctx context.Context, id uuid.UUID) (*domainSubscription.Entry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*domainSubscription.Entry)
	return entry, args.Error(1)
}

func (m *Finder) List(ctx context.Context, offset, limit int) ([]domainSubscription.Entry, error) {
	args := m.Called(ctx, offset, limit)
	entries, _ := args.Get(0).([]domainSubscription.Entry)
	return entries, args.Error(1)
}

type Deleter struct {
	mock.Mock
}

func (m *Deleter) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
