package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/domain"
	domainSubscription "github.com/autoshield/autoshield/pkg/domain/subscription"
)

//go:generate mockery --name=Deleter --dir=. --output=./mocks --filename=subscription_deleter_mock.go --case=underscore --with-expecter
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type deleter struct {
	logger *logrus.Logger
	repo   domainSubscription.Repository
}

func NewDeleter(logger *logrus.Logger, repo domainSubscription.Repository) Deleter {
	return &deleter{
		logger: logger,
		repo:   repo,
	}
}

// Delete removes the registry entry. The firewall keeps whatever rules
// it has; future runs simply stop addressing it.
func (d *deleter) Delete(ctx context.Context, id uuid.UUID) error {
	if err := d.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFoundError(err) {
			return err
		}
		d.logger.WithError(err).Error("failed to delete subscription")
		return err
	}
	d.logger.WithField("subscription_entry_id", id).Info("subscription deleted")
	return nil
}
