package server

import (
	"fmt"

	"github.com/autoshield/autoshield/pkg/config"
	handlers "github.com/autoshield/autoshield/pkg/handlers/http"
	"github.com/autoshield/autoshield/pkg/infra/prometheus"
	"github.com/autoshield/autoshield/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
)

type (
	AdminServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	AdminServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewAdminServer(di AdminServerDI) *AdminServer {
	if di.Config.Metrics.Enabled {
		metricsConfig := prometheus.MetricsConfig{
			EnableDispatchLatency: di.Config.Metrics.EnableDispatchLatency,
			EnableAdminRequests:   di.Config.Metrics.EnableAdminRequests,
		}
		prometheus.Initialize(metricsConfig)
	}

	s := &AdminServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
	s.BaseServer.setupMetricsEndpoint()
	return s
}

func (s *AdminServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()

	addr := fmt.Sprintf(":%d", s.config.Server.AdminPort)
	s.logger.WithField("addr", addr).Info("Starting admin server")
	return s.router.Listen(addr)
}

func (s *AdminServer) setupRoutes() {
	baseRouter := s.router.Group("")
	s.addRoutes(baseRouter)
}

func (s *AdminServer) addRoutes(router fiber.Router) {
	router.Use(s.middlewareTransport.PanicRecoverMiddleware.Middleware())

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: "/swagger.json",
	}))

	router.Get("/version", s.handlerTransport.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		// Metrics middleware sits outside auth so rejected requests are
		// counted too.
		v1.Use(s.middlewareTransport.MetricsMiddleware.Middleware())
		v1.Use(s.middlewareTransport.AuthMiddleware.Middleware())

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.Post("", s.handlerTransport.RegisterSubscriptionHandler.Handle)
			subscriptions.Get("", s.handlerTransport.ListSubscriptionsHandler.Handle)
			subscriptions.Get("/:subscription_id", s.handlerTransport.GetSubscriptionHandler.Handle)
			subscriptions.Delete("/:subscription_id", s.handlerTransport.DeleteSubscriptionHandler.Handle)
		}

		v1.Get("/ranges", s.handlerTransport.ListRangesHandler.Handle)
		v1.Get("/dispatches", s.handlerTransport.ListDispatchesHandler.Handle)

		reconcile := v1.Group("/reconcile")
		{
			reconcile.Post("", s.handlerTransport.ReconcileHandler.Handle)
			reconcile.Get("/last", s.handlerTransport.GetLastRunHandler.Handle)
		}

		v1.Post("/snapshot/import", s.handlerTransport.ImportSnapshotHandler.Handle)
	}
}

func (s *AdminServer) Shutdown() error {
	return s.router.Shutdown()
}
