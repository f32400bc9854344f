package http

import (
	appSubscription "github.com/autoshield/autoshield/pkg/app/subscription"
	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getSubscriptionHandler struct {
	logger *logrus.Logger
	finder appSubscription.Finder
}

func NewGetSubscriptionHandler(logger *logrus.Logger, finder appSubscription.Finder) Handler {
	return &getSubscriptionHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary Get a firewall subscription
// @Description Returns a single subscription entry by ID
// @Tags Subscriptions
// @Produce json
// @Param subscription_id path string true "Subscription entry ID"
// @Success 200 {object} subscription.Entry "Subscription entry"
// @Failure 404 {object} map[string]interface{} "Subscription not found"
// @Router /api/v1/subscriptions/{subscription_id} [get]
func (h *getSubscriptionHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("subscription_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid subscription ID"})
	}

	entry, err := h.finder.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to fetch subscription")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(entry)
}
