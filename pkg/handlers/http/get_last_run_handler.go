package http

import (
	"github.com/autoshield/autoshield/pkg/app/reconcile"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getLastRunHandler struct {
	logger  *logrus.Logger
	lastRun reconcile.LastRunStore
}

func NewGetLastRunHandler(logger *logrus.Logger, lastRun reconcile.LastRunStore) Handler {
	return &getLastRunHandler{
		logger:  logger,
		lastRun: lastRun,
	}
}

// Handle @Summary Get the last completed run
// @Description Returns the summary of the most recent successful reconciliation run
// @Tags Reconciliation
// @Produce json
// @Success 200 {object} reconcile.RunSummary "Last run summary"
// @Failure 404 {object} map[string]interface{} "No completed run recorded"
// @Router /api/v1/reconcile/last [get]
func (h *getLastRunHandler) Handle(c *fiber.Ctx) error {
	summary, err := h.lastRun.Load(c.Context())
	if err != nil || summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no completed run recorded"})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
