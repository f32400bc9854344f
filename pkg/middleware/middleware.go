package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport carries the middleware set handed to the admin server.
type Transport struct {
	PanicRecoverMiddleware Middleware
	AuthMiddleware         Middleware
	MetricsMiddleware      Middleware
}
