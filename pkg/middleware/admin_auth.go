package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/infra/jwt"
)

const bearerScheme = "Bearer "

// adminAuthMiddleware gates every admin API route behind the shared
// admin JWT. There are no per-user identities; one signing secret
// admits the operators and the scheduler alike.
type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

func NewAdminAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &adminAuthMiddleware{logger: logger, jwtManager: jwtManager}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			m.logger.WithField("path", c.Path()).Debug("request without bearer token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization required"})
		}

		if err := m.jwtManager.ValidateToken(token); err != nil {
			m.logger.WithError(err).WithField("path", c.Path()).Debug("admin token rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerScheme))
	return token, token != ""
}
