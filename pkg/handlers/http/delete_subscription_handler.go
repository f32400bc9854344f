package http

import (
	"net/http"

	appSubscription "github.com/autoshield/autoshield/pkg/app/subscription"
	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deleteSubscriptionHandler struct {
	logger  *logrus.Logger
	deleter appSubscription.Deleter
}

func NewDeleteSubscriptionHandler(logger *logrus.Logger, deleter appSubscription.Deleter) Handler {
	return &deleteSubscriptionHandler{
		logger:  logger,
		deleter: deleter,
	}
}

// Handle @Summary Delete a firewall subscription
// @Description Removes a subscription from the registry; the firewall keeps its current rules
// @Tags Subscriptions
// @Param subscription_id path string true "Subscription entry ID"
// @Success 204 "Subscription deleted"
// @Failure 404 {object} map[string]interface{} "Subscription not found"
// @Router /api/v1/subscriptions/{subscription_id} [delete]
func (h *deleteSubscriptionHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("subscription_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid subscription ID"})
	}

	if err := h.deleter.Delete(c.Context(), id); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(http.StatusNoContent)
}
