package http

import (
	"errors"

	appSubscription "github.com/autoshield/autoshield/pkg/app/subscription"
	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/autoshield/autoshield/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type registerSubscriptionHandler struct {
	logger  *logrus.Logger
	creator appSubscription.Creator
}

func NewRegisterSubscriptionHandler(
	logger *logrus.Logger,
	creator appSubscription.Creator,
) Handler {
	return &registerSubscriptionHandler{
		logger:  logger,
		creator: creator,
	}
}

// Handle @Summary Register a firewall subscription
// @Description Registers a firewall for a (component, region) scope and whitelists the currently active ranges
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body request.RegisterSubscriptionRequest true "Subscription data"
// @Success 201 {object} subscription.Entry "Subscription registered"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]interface{} "Duplicate subscription"
// @Router /api/v1/subscriptions [post]
func (h *registerSubscriptionHandler) Handle(c *fiber.Ctx) error {
	var req request.RegisterSubscriptionRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind register subscription request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, err := h.creator.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to register subscription")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}
