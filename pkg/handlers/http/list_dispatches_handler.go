package http

import (
	"strconv"

	"github.com/autoshield/autoshield/pkg/domain/audit"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type listDispatchesHandler struct {
	logger *logrus.Logger
	repo   audit.Repository
}

func NewListDispatchesHandler(logger *logrus.Logger, repo audit.Repository) Handler {
	return &listDispatchesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List dispatch records
// @Description Returns the append-only audit trail of firewall mutation calls, newest first
// @Tags Dispatches
// @Produce json
// @Param action query string false "Filter by action (add or remove)"
// @Param subscription_id query string false "Filter by provider subscription ID"
// @Param run_id query string false "Filter by reconciliation run ID"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} audit.DispatchRecord "List of dispatch records"
// @Router /api/v1/dispatches [get]
func (h *listDispatchesHandler) Handle(c *fiber.Ctx) error {
	filter := audit.Filter{
		SubscriptionID: c.Query("subscription_id"),
		Limit:          100,
	}

	if action := c.Query("action"); action != "" {
		if action != string(changeset.ActionAdd) && action != string(changeset.ActionRemove) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be 'add' or 'remove'"})
		}
		filter.Action = action
	}
	if runIDStr := c.Query("run_id"); runIDStr != "" {
		runID, err := uuid.Parse(runIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run ID"})
		}
		filter.RunID = &runID
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if val, err := strconv.Atoi(offsetStr); err == nil && val >= 0 {
			filter.Offset = val
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= 500 {
			filter.Limit = val
		}
	}

	records, err := h.repo.List(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list dispatch records")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(records)
}
