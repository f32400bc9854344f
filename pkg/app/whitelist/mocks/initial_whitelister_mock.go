package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

type InitialWhitelister struct {
	mock.Mock
}

func (m *InitialWhitelister) OnSubscriptionRegistered(ctx context.Context, entries []subscription.Entry) {
	m.Called(ctx, entries)
}
