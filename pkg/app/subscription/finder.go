package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainSubscription "github.com/autoshield/autoshield/pkg/domain/subscription"
)

//go:generate mockery --name=Finder --dir=. --output=./mocks --filename=subscription_finder_mock.go --case=underscore --with-expecter
type Finder interface {
	Get(ctx context.Context, id uuid.UUID) (*domainSubscription.Entry, error)
	List(ctx context.Context, offset, limit int) ([]domainSubscription.Entry, error)
}

type finder struct {
	logger *logrus.Logger
	repo   domainSubscription.Repository
}

func NewFinder(logger *logrus.Logger, repo domainSubscription.Repository) Finder {
	return &finder{
		logger: logger,
		repo:   repo,
	}
}

func (f *finder) Get(ctx context.Context, id uuid.UUID) (*domainSubscription.Entry, error) {
	return f.repo.Get(ctx, id)
}

func (f *finder) List(ctx context.Context, offset, limit int) ([]domainSubscription.Entry, error) {
	entries, err := f.repo.List(ctx, offset, limit)
	if err != nil {
		f.logger.WithError(err).Error("failed to list subscriptions")
		return nil, err
	}
	return entries, nil
}
