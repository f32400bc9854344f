package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/changeset"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Dispatch(ctx context.Context, runID *uuid.UUID, group changeset.ChangeGroup) error {
	args := m.Called(ctx, runID, group)
	return args.Error(0)
}

func (m *Dispatcher) DispatchAll(ctx context.Context, runID *uuid.UUID, groups []changeset.ChangeGroup) []changeset.ChangeGroup {
	args := m.Called(ctx, runID, groups)
	failed, _ := args.Get(0).([]changeset.ChangeGroup)
	return failed
}
