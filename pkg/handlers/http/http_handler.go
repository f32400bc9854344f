package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Subscription registry
	RegisterSubscriptionHandler Handler
	ListSubscriptionsHandler    Handler
	GetSubscriptionHandler      Handler
	DeleteSubscriptionHandler   Handler

	// Range store
	ListRangesHandler Handler

	// Audit trail
	ListDispatchesHandler Handler

	// Reconciliation
	ReconcileHandler  Handler
	GetLastRunHandler Handler

	// Snapshot staging
	ImportSnapshotHandler Handler

	// Misc
	GetVersionHandler Handler
}
