package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/amushan/portal-storefront/internal/app/api"
	"github.com/amushan/portal-storefront/internal/clients/http/orderapi"
	cartmemory "github.com/amushan/portal-storefront/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/amushan/portal-storefront/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	checkoutevents "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/events"
	checkoutapp "github.com/amushan/portal-storefront/internal/domains/checkout/application"
	sessionmemory "github.com/amushan/portal-storefront/internal/domains/session/adapters/memory"
	sessionpostgres "github.com/amushan/portal-storefront/internal/domains/session/adapters/persistence/postgres"
	sessionports "github.com/amushan/portal-storefront/internal/domains/session/ports"
	"github.com/amushan/portal-storefront/internal/platform/migrations"
	platformobservability "github.com/amushan/portal-storefront/internal/platform/observability"
	platformpostgres "github.com/amushan/portal-storefront/internal/platform/postgres"
	checkoutactivities "github.com/amushan/portal-storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/amushan/portal-storefront/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "portal-storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var cartRepo cartports.Repository = cartmemory.NewRepository()
	var stateStore sessionports.StateStore = sessionmemory.NewStateStore()
	if db != nil {
		cartRepo = cartpostgres.NewRepository(db)
		stateStore = sessionpostgres.NewStateStore(db, cfg.StateTTL)
	}

	orderGateway, err := orderapi.NewClient(cfg.OrderAPIBaseURL, nil)
	if err != nil {
		logger.Error("failed to build order API client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	coordinator := checkoutapp.NewCoordinator(
		cartapp.NewService(cartRepo, cartapp.WithLogger(logger)),
		orderGateway,
		checkoutapp.WithStateStore(stateStore),
		checkoutapp.WithEventListener(checkoutevents.NewLogListener(logger)),
		checkoutapp.WithSubmitTimeout(cfg.CheckoutTimeout),
		checkoutapp.WithLogger(logger),
	)
	activities := checkoutactivities.NewActivities(coordinator)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.CheckoutSubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutSubmissionWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutSubmissionWorkflowName})
	w.RegisterActivityWithOptions(activities.SubmitOrder, activity.RegisterOptions{Name: checkoutactivities.SubmitOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.CheckoutSubmissionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
