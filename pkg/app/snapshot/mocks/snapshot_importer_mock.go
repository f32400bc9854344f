package mocks

import (
	"context"

	appSnapshot "github.com/autoshield/autoshield/pkg/app/snapshot"
	"github.com/stretchr/testify/mock"
)

type Importer struct {
	mock.Mock
}

func (m *Importer) Import(ctx context.Context) (*appSnapshot.ImportSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*appSnapshot.ImportSummary)
	return summary, args.Error(1)
}
