package http

import (
	"strconv"

	appSubscription "github.com/autoshield/autoshield/pkg/app/subscription"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listSubscriptionsHandler struct {
	logger *logrus.Logger
	finder appSubscription.Finder
}

func NewListSubscriptionsHandler(logger *logrus.Logger, finder appSubscription.Finder) Handler {
	return &listSubscriptionsHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary List firewall subscriptions
// @Description Returns the registered firewall subscriptions
// @Tags Subscriptions
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} subscription.Entry "List of subscriptions"
// @Router /api/v1/subscriptions [get]
func (h *listSubscriptionsHandler) Handle(c *fiber.Ctx) error {
	offset := 0
	limit := 50

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if val, err := strconv.Atoi(offsetStr); err == nil && val >= 0 {
			offset = val
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	entries, err := h.finder.List(c.Context(), offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}
