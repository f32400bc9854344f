package http

import (
	"errors"

	"github.com/autoshield/autoshield/pkg/app/reconcile"
	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type reconcileHandler struct {
	logger *logrus.Logger
	runner reconcile.Runner
}

func NewReconcileHandler(logger *logrus.Logger, runner reconcile.Runner) Handler {
	return &reconcileHandler{
		logger: logger,
		runner: runner,
	}
}

// Handle @Summary Execute a reconciliation run
// @Description Runs one full reconciliation synchronously and returns its summary
// @Tags Reconciliation
// @Produce json
// @Success 200 {object} reconcile.RunSummary "Run summary"
// @Failure 409 {object} map[string]interface{} "A run is already in progress"
// @Failure 500 {object} map[string]interface{} "Run failed"
// @Router /api/v1/reconcile [post]
func (h *reconcileHandler) Handle(c *fiber.Ctx) error {
	summary, err := h.runner.Run(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("reconciliation run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
