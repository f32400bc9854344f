package mocks

import (
	"context"

	"github.com/autoshield/autoshield/pkg/app/reconcile"
	"github.com/stretchr/testify/mock"
)

type Runner struct {
	mock.Mock
}

func (m *Runner) Run(ctx context.Context) (*reconcile.RunSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*reconcile.RunSummary)
	return summary, args.Error(1)
}

type LastRunStore struct {
	mock.Mock
}

func (m *LastRunStore) Save(ctx context.Context, summary *reconcile.RunSummary) {
	m.Called(ctx, summary)
}

func (m *LastRunStore) Load(ctx context.Context) (*reconcile.RunSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*reconcile.RunSummary)
	return summary, args.Error(1)
}
