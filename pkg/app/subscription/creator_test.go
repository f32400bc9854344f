package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	whitelistMocks "github.com/autoshield/autoshield/pkg/app/whitelist/mocks"
	"github.com/autoshield/autoshield/pkg/domain"
	domainSubscription "github.com/autoshield/autoshield/pkg/domain/subscription"
	subscriptionMocks "github.com/autoshield/autoshield/pkg/domain/subscription/mocks"
	"github.com/autoshield/autoshield/pkg/handlers/http/request"
)

func setupCreator(repo *subscriptionMocks.Repository, whitelister *whitelistMocks.InitialWhitelister) Creator {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Reduce noise in tests
	return NewCreator(logger, repo, whitelister)
}

func validRequest() *request.RegisterSubscriptionRequest {
	return &request.RegisterSubscriptionRequest{
		OfferingType:   "sql",
		OfferingName:   "orders-db",
		SubscriptionID: "11111111-2222-3333-4444-555555555555",
		ResourceGroup:  "prod-rg",
		Component:      "AzureCloud",
		Region:         "westeurope",
	}
}

func TestCreator_Register_Success(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	whitelister := new(whitelistMocks.InitialWhitelister)
	c := setupCreator(repo, whitelister)

	var saved []domainSubscription.Entry
	repo.On("Save", mock.Anything, mock.AnythingOfType("[]subscription.Entry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domainSubscription.Entry)
		}).
		Return(nil)
	whitelister.On("OnSubscriptionRegistered", mock.Anything, mock.AnythingOfType("[]subscription.Entry")).Return()

	entry, err := c.Register(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, domainSubscription.OfferingSQL, entry.OfferingType)
	assert.Equal(t, "westeurope", entry.Region)
	assert.False(t, entry.CreatedAt.IsZero())

	assert.Len(t, saved, 1)
	assert.Equal(t, entry.ID, saved[0].ID)

	repo.AssertExpectations(t)
	whitelister.AssertExpectations(t)
}

func TestCreator_Register_DuplicateSkipsTrigger(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	whitelister := new(whitelistMocks.InitialWhitelister)
	c := setupCreator(repo, whitelister)

	repo.On("Save", mock.Anything, mock.AnythingOfType("[]subscription.Entry")).
		Return(domain.ErrAlreadyRegistered)

	entry, err := c.Register(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	assert.Nil(t, entry)
	whitelister.AssertNotCalled(t, "OnSubscriptionRegistered", mock.Anything, mock.Anything)
}

func TestCreator_Register_InvalidOfferingType(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	whitelister := new(whitelistMocks.InitialWhitelister)
	c := setupCreator(repo, whitelister)

	req := validRequest()
	req.OfferingType = "cosmos"

	entry, err := c.Register(context.Background(), req)

	assert.Error(t, err)
	assert.Nil(t, entry)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreator_Register_RepositoryError(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	whitelister := new(whitelistMocks.InitialWhitelister)
	c := setupCreator(repo, whitelister)

	repo.On("Save", mock.Anything, mock.AnythingOfType("[]subscription.Entry")).
		Return(errors.New("connection refused"))

	entry, err := c.Register(context.Background(), validRequest())

	assert.Error(t, err)
	assert.Nil(t, entry)
	whitelister.AssertNotCalled(t, "OnSubscriptionRegistered", mock.Anything, mock.Anything)
}
