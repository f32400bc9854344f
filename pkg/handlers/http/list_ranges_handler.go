package http

import (
	"strconv"

	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listRangesHandler struct {
	logger *logrus.Logger
	repo   iprange.Repository
}

func NewListRangesHandler(logger *logrus.Logger, repo iprange.Repository) Handler {
	return &listRangesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List whitelisted IP ranges
// @Description Returns the range store, optionally filtered by scope
// @Tags Ranges
// @Produce json
// @Param component query string false "Filter by component"
// @Param region query string false "Filter by region"
// @Param include_deleted query bool false "Include soft-deleted rows"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 1000)"
// @Success 200 {array} iprange.IPRange "List of ranges"
// @Router /api/v1/ranges [get]
func (h *listRangesHandler) Handle(c *fiber.Ctx) error {
	filter := iprange.Filter{
		Component: c.Query("component"),
		Region:    c.Query("region"),
		Limit:     200,
	}

	if v := c.Query("include_deleted"); v != "" {
		includeDeleted, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid include_deleted value"})
		}
		filter.IncludeDeleted = includeDeleted
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if val, err := strconv.Atoi(offsetStr); err == nil && val >= 0 {
			filter.Offset = val
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= 1000 {
			filter.Limit = val
		}
	}

	ranges, err := h.repo.List(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list ranges")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(ranges)
}
