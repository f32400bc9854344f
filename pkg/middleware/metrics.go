package middleware

import (
	"strconv"

	"github.com/autoshield/autoshield/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

// Middleware counts admin API requests by method, route and status. The
// route pattern is used instead of the raw path so parameterised routes
// do not explode the label cardinality.
func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if !prometheus.Config.EnableAdminRequests {
			return err
		}

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		prometheus.AdminRequestsTotal.WithLabelValues(
			c.Method(),
			path,
			strconv.Itoa(c.Response().StatusCode()),
		).Inc()

		return err
	}
}
