package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain"
	subscriptionMocks "github.com/autoshield/autoshield/pkg/domain/subscription/mocks"
)

func setupDeleter(repo *subscriptionMocks.Repository) Deleter {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Reduce noise in tests
	return NewDeleter(logger, repo)
}

func TestDeleter_Delete_Success(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	d := setupDeleter(repo)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(nil)

	err := d.Delete(context.Background(), id)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleter_Delete_NotFound(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	d := setupDeleter(repo)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(domain.NewNotFoundError("subscription", id))

	err := d.Delete(context.Background(), id)

	assert.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestDeleter_Delete_RepositoryError(t *testing.T) {
	repo := new(subscriptionMocks.Repository)
	d := setupDeleter(repo)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(errors.New("connection refused"))

	err := d.Delete(context.Background(), id)

	assert.Error(t, err)
	assert.False(t, domain.IsNotFoundError(err))
}
