package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoshield/autoshield/pkg/app/reconcile"
	reconcileMocks "github.com/autoshield/autoshield/pkg/app/reconcile/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLastRunApp(store *reconcileMocks.LastRunStore) *fiber.App {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Reduce noise in tests

	handler := NewGetLastRunHandler(logger, store)
	app := fiber.New()
	app.Get("/api/v1/reconcile/last", handler.Handle)
	return app
}

func TestGetLastRunHandler_Success(t *testing.T) {
	store := new(reconcileMocks.LastRunStore)
	app := setupLastRunApp(store)

	summary := &reconcile.RunSummary{
		RunID:            uuid.New(),
		StartedAt:        time.Now().Add(-5 * time.Minute),
		FinishedAt:       time.Now().Add(-4 * time.Minute),
		RangesAdded:      7,
		GroupsDispatched: 2,
	}
	store.On("Load", mock.Anything).Return(summary, nil)

	req := httptest.NewRequest("GET", "/api/v1/reconcile/last", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var decoded reconcile.RunSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, summary.RunID, decoded.RunID)
	assert.Equal(t, 7, decoded.RangesAdded)
}

func TestGetLastRunHandler_NoRunRecorded(t *testing.T) {
	store := new(reconcileMocks.LastRunStore)
	app := setupLastRunApp(store)

	store.On("Load", mock.Anything).Return(nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/reconcile/last", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetLastRunHandler_LoadError(t *testing.T) {
	store := new(reconcileMocks.LastRunStore)
	app := setupLastRunApp(store)

	store.On("Load", mock.Anything).Return(nil, assert.AnError)

	req := httptest.NewRequest("GET", "/api/v1/reconcile/last", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
