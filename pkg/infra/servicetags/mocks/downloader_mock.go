package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Downloader struct {
	mock.Mock
}

func (m *Downloader) Download(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
