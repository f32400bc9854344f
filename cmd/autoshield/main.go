package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/app/dispatch"
	"github.com/autoshield/autoshield/pkg/app/reconcile"
	"github.com/autoshield/autoshield/pkg/app/snapshot"
	"github.com/autoshield/autoshield/pkg/app/subscription"
	"github.com/autoshield/autoshield/pkg/app/whitelist"
	"github.com/autoshield/autoshield/pkg/cache"
	"github.com/autoshield/autoshield/pkg/common"
	"github.com/autoshield/autoshield/pkg/config"
	domainTelemetry "github.com/autoshield/autoshield/pkg/domain/telemetry"
	handlers "github.com/autoshield/autoshield/pkg/handlers/http"
	"github.com/autoshield/autoshield/pkg/infra/database"
	"github.com/autoshield/autoshield/pkg/infra/firewall"
	"github.com/autoshield/autoshield/pkg/infra/httpx"
	"github.com/autoshield/autoshield/pkg/infra/jwt"
	infraLogger "github.com/autoshield/autoshield/pkg/infra/logger"
	_ "github.com/autoshield/autoshield/pkg/infra/migrations"
	"github.com/autoshield/autoshield/pkg/infra/repository"
	"github.com/autoshield/autoshield/pkg/infra/servicetags"
	infraTelemetry "github.com/autoshield/autoshield/pkg/infra/telemetry"
	"github.com/autoshield/autoshield/pkg/infra/telemetry/kafka"
	"github.com/autoshield/autoshield/pkg/middleware"
	"github.com/autoshield/autoshield/pkg/server"
)

func main() {
	ctx := context.Background()
	mode := getMode()
	envFile := os.Getenv("ENV_FILE")

	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger(mode)

	// Load configuration
	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	jwtManager := jwt.NewJwtManager(&cfg.Server)
	if mode == "token" {
		printToken(logger, jwtManager)
		return
	}

	// Initialize database
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheInstance, err := cache.NewCache(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	// repository
	rangeRepository := repository.NewIPRangeRepository(db.DB)
	snapshotRepository := repository.NewSnapshotRepository(db.DB)
	subscriptionRepository := repository.NewSubscriptionRepository(db.DB)
	auditRepository := repository.NewAuditRepository(db.DB)

	// firewall mutation client
	breaker := httpx.NewCircuitBreaker(
		"azure-function",
		cfg.Azure.Breaker.ResetTimeout,
		cfg.Azure.Breaker.MaxFailures,
	)
	dispatchHTTPClient := httpx.NewFastHTTPClient(httpx.FastHTTPConfig{
		Timeout: cfg.Azure.DispatchTimeout,
	})
	firewallClient := firewall.NewAzureFunctionClient(
		cfg.Azure.FunctionURL,
		logger,
		breaker,
		firewall.WithHTTPClient(dispatchHTTPClient),
		firewall.WithFunctionKey(cfg.Azure.FunctionKey),
	)

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter("kafka", kafka.NewKafkaExporter()),
	)
	exporters, err := exporterLocator.Resolve(exporterConfigs(cfg.Telemetry.Exporters))
	if err != nil {
		logger.Fatalf("Failed to resolve telemetry exporters: %v", err)
	}
	emitter := infraTelemetry.NewEmitter(exporters, logger)
	defer emitter.Close()

	// service
	dispatcher := dispatch.NewDispatcher(
		logger,
		firewallClient,
		auditRepository,
		emitter,
		cfg.Azure.DispatchTimeout,
		cfg.Reconciler.DispatchConcurrency,
	)
	runLock := cache.NewRunLock(cacheInstance.Client(), common.RunLockKey, cfg.Reconciler.LockTTL)
	lastRunStore := reconcile.NewLastRunStore(logger, cacheInstance)
	runner := reconcile.NewRunner(
		logger,
		rangeRepository,
		snapshotRepository,
		subscriptionRepository,
		dispatcher,
		runLock,
		lastRunStore,
		emitter,
		cfg.Reconciler.RetryFailedDispatches,
	)
	whitelister := whitelist.NewInitialWhitelister(logger, rangeRepository, dispatcher)
	subscriptionCreator := subscription.NewCreator(logger, subscriptionRepository, whitelister)
	subscriptionFinder := subscription.NewFinder(logger, subscriptionRepository)
	subscriptionDeleter := subscription.NewDeleter(logger, subscriptionRepository)

	feedClient := httpx.NewFastHTTPClient(httpx.FastHTTPConfig{
		Timeout:             cfg.ServiceTags.DownloadTimeout,
		MaxResponseBodySize: servicetags.MaxFeedBytes,
	})
	downloader := servicetags.NewDownloader(feedClient, cfg.ServiceTags.FeedURL, logger)
	importer := snapshot.NewImporter(logger, downloader, snapshotRepository, cfg.ServiceTags.DownloadTimeout)

	switch mode {
	case "reconcile":
		runReconcile(ctx, logger, runner)
		return
	case "import":
		runImport(ctx, logger, importer)
		return
	}

	// middleware
	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		AuthMiddleware:         middleware.NewAdminAuthMiddleware(logger, jwtManager),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
	}

	// Handler Transport
	handlerTransport := handlers.HandlerTransport{
		// Subscription registry
		RegisterSubscriptionHandler: handlers.NewRegisterSubscriptionHandler(logger, subscriptionCreator),
		ListSubscriptionsHandler:    handlers.NewListSubscriptionsHandler(logger, subscriptionFinder),
		GetSubscriptionHandler:      handlers.NewGetSubscriptionHandler(logger, subscriptionFinder),
		DeleteSubscriptionHandler:   handlers.NewDeleteSubscriptionHandler(logger, subscriptionDeleter),
		// Range store
		ListRangesHandler: handlers.NewListRangesHandler(logger, rangeRepository),
		// Audit trail
		ListDispatchesHandler: handlers.NewListDispatchesHandler(logger, auditRepository),
		// Reconciliation
		ReconcileHandler:  handlers.NewReconcileHandler(logger, runner),
		GetLastRunHandler: handlers.NewGetLastRunHandler(logger, lastRunStore),
		// Snapshot staging
		ImportSnapshotHandler: handlers.NewImportSnapshotHandler(logger, importer),
		// Misc
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
	}

	adminServerDI := server.AdminServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	}

	var srv server.Server = server.NewAdminServer(adminServerDI)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func getMode() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "server"
}

func exporterConfigs(configs []config.ExporterConfig) []domainTelemetry.ExporterConfig {
	out := make([]domainTelemetry.ExporterConfig, 0, len(configs))
	for _, c := range configs {
		out = append(out, domainTelemetry.ExporterConfig{Name: c.Name, Settings: c.Settings})
	}
	return out
}

func runReconcile(ctx context.Context, logger *logrus.Logger, runner reconcile.Runner) {
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("reconciliation failed: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"run_id":            summary.RunID,
		"ranges_added":      summary.RangesAdded,
		"ranges_removed":    summary.RangesRemoved,
		"groups_dispatched": summary.GroupsDispatched,
		"groups_failed":     summary.GroupsFailed,
	}).Info("reconciliation finished")
}

func runImport(ctx context.Context, logger *logrus.Logger, importer snapshot.Importer) {
	summary, err := importer.Import(ctx)
	if err != nil {
		logger.Fatalf("snapshot import failed: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"cloud":         summary.Cloud,
		"change_number": summary.ChangeNumber,
		"staged":        summary.Staged,
		"skipped_ipv6":  summary.SkippedIPv6,
	}).Info("snapshot staged")
}

func printToken(logger *logrus.Logger, manager jwt.Manager) {
	token, err := manager.CreateToken()
	if err != nil {
		logger.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
