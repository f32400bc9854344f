package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/autoshield/autoshield/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const AdminHealthPath = "/__/health"

// Server is implemented by every listener the binary can run.
type Server interface {
	Run() error
	Shutdown() error
}

// BaseServer owns the fiber app plus the endpoints every listener carries:
// health probes and, when enabled, the prometheus scrape port.
type BaseServer struct {
	config         *config.Config
	logger         *logrus.Logger
	router         *fiber.App
	metricsStarted bool
}

func NewBaseServer(config *config.Config, logger *logrus.Logger) *BaseServer {
	return &BaseServer{
		config: config,
		logger: logger,
		router: newRouter(),
	}
}

// newRouter builds the fiber app. The admin API moves firewall rule sets,
// not user traffic, so the limits stay modest.
func newRouter() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             4 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})
	srv := app.Server()
	srv.NoDefaultServerHeader = true
	srv.NoDefaultDate = true
	srv.NoDefaultContentType = true
	return app
}

func healthHandler(status string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *BaseServer) setupHealthCheck() {
	s.router.Get("/health", healthHandler("healthy"))
	s.router.Get(AdminHealthPath, healthHandler("ok"))
}

// setupMetricsEndpoint serves /metrics from its own port so the admin
// listener can stay behind auth while scrapes stay open.
func (s *BaseServer) setupMetricsEndpoint() {
	if !s.config.Metrics.Enabled {
		s.logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	if s.metricsStarted {
		return
	}
	s.metricsStarted = true

	scrape := fiber.New(fiber.Config{DisableStartupMessage: true})
	scrape.Use(recover.New())
	promHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	scrape.Get("/metrics", func(c *fiber.Ctx) error {
		promHandler(c.Context())
		return nil
	})

	addr := fmt.Sprintf(":%d", s.config.Server.MetricsPort)
	go func() {
		err := scrape.Listen(addr)
		// Tolerate a second exporter already bound on this host.
		if err != nil && !strings.Contains(err.Error(), "address already in use") {
			s.logger.WithError(err).Error("metrics listener failed")
		}
	}()
}
