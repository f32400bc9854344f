package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/app/whitelist"
	"github.com/autoshield/autoshield/pkg/domain"
	domainSubscription "github.com/autoshield/autoshield/pkg/domain/subscription"
	"github.com/autoshield/autoshield/pkg/handlers/http/request"
)

//go:generate mockery --name=Creator --dir=. --output=./mocks --filename=subscription_creator_mock.go --case=underscore --with-expecter
type Creator interface {
	Register(ctx context.Context, req *request.RegisterSubscriptionRequest) (*domainSubscription.Entry, error)
}

type creator struct {
	logger      *logrus.Logger
	repo        domainSubscription.Repository
	whitelister whitelist.InitialWhitelister
}

func NewCreator(
	logger *logrus.Logger,
	repo domainSubscription.Repository,
	whitelister whitelist.InitialWhitelister,
) Creator {
	return &creator{
		logger:      logger,
		repo:        repo,
		whitelister: whitelister,
	}
}

// Register persists the entry and then fires the immediate whitelist
// trigger. The trigger outcome never fails a registration that already
// persisted.
func (c *creator) Register(ctx context.Context, req *request.RegisterSubscriptionRequest) (*domainSubscription.Entry, error) {
	entry := domainSubscription.Entry{
		ID:             uuid.New(),
		OfferingType:   domainSubscription.OfferingType(req.OfferingType),
		OfferingName:   req.OfferingName,
		SubscriptionID: req.SubscriptionID,
		ResourceGroup:  req.ResourceGroup,
		Component:      req.Component,
		Region:         req.Region,
		CreatedAt:      time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := c.repo.Save(ctx, []domainSubscription.Entry{entry}); err != nil {
		if !errors.Is(err, domain.ErrAlreadyRegistered) {
			c.logger.WithError(err).Error("failed to save subscription")
		}
		return nil, err
	}

	c.whitelister.OnSubscriptionRegistered(ctx, []domainSubscription.Entry{entry})

	return &entry, nil
}
