package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	"github.com/amushan/portal-storefront/internal/clients/http/catalog"
	"github.com/amushan/portal-storefront/internal/clients/http/engagement"
	"github.com/amushan/portal-storefront/internal/clients/http/orderapi"
	cartmemory "github.com/amushan/portal-storefront/internal/domains/cart/adapters/memory"
	cartobs "github.com/amushan/portal-storefront/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/amushan/portal-storefront/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	checkoutevents "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/events"
	checkoutobs "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/observability"
	checkoutworkflows "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/amushan/portal-storefront/internal/domains/checkout/application"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
	sessionmemory "github.com/amushan/portal-storefront/internal/domains/session/adapters/memory"
	sessionpostgres "github.com/amushan/portal-storefront/internal/domains/session/adapters/persistence/postgres"
	sessionports "github.com/amushan/portal-storefront/internal/domains/session/ports"
	storefrontserver "github.com/amushan/portal-storefront/internal/http"
	"github.com/amushan/portal-storefront/internal/platform/migrations"
	platformobservability "github.com/amushan/portal-storefront/internal/platform/observability"
	platformpostgres "github.com/amushan/portal-storefront/internal/platform/postgres"
)

// Run boots the storefront HTTP API with observability, repositories,
// clients, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "portal-storefront-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cartRepo := buildCartRepository(db, logger)
	cartService := cartobs.New(
		cartapp.NewService(cartRepo, cartapp.WithLogger(logger)),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	stateStore := buildStateStore(db, cfg.StateTTL, logger)

	orderGateway, err := orderapi.NewClient(cfg.OrderAPIBaseURL, nil)
	if err != nil {
		return err
	}

	listener, closeListener := buildEventListener(cfg, logger)
	defer closeListener()

	coordinator := checkoutapp.NewCoordinator(
		cartService,
		orderGateway,
		checkoutapp.WithStateStore(stateStore),
		checkoutapp.WithEventListener(listener),
		checkoutapp.WithSubmitTimeout(cfg.CheckoutTimeout),
		checkoutapp.WithLogger(logger),
	)
	checkoutService := checkoutobs.New(
		coordinator,
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	var orchestrator checkoutports.Orchestrator = checkoutworkflows.NewInlineCheckout(checkoutService)
	// Inline submissions run in this process, so the coordinator sees them;
	// durable submissions run on a worker, so their state lives on the cluster.
	var submissionStates storefrontserver.StateReporter = coordinator
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		temporalCheckout := checkoutworkflows.NewTemporalCheckout(temporalClient)
		orchestrator = temporalCheckout
		submissionStates = temporalCheckout
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return err
	}
	engagementClient, err := engagement.NewClient(cfg.EngagementBaseURL, nil, logger)
	if err != nil {
		return err
	}

	handlers := storefrontserver.ApiHandleFunctions{
		CartAPI:       storefrontserver.NewCartAPI(cartService, catalogClient),
		CheckoutAPI:   storefrontserver.NewCheckoutAPI(orchestrator, submissionStates),
		SessionAPI:    storefrontserver.NewSessionAPI(stateStore),
		CatalogAPI:    storefrontserver.NewCatalogAPI(catalogClient),
		EngagementAPI: storefrontserver.NewEngagementAPI(engagementClient),
	}

	router := storefrontserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildCartRepository(db *gorm.DB, logger *slog.Logger) cartports.Repository {
	if db == nil {
		return cartmemory.NewRepository()
	}
	logger.Info("cart repository configured with postgres")
	return cartpostgres.NewRepository(db)
}

func buildStateStore(db *gorm.DB, ttl time.Duration, logger *slog.Logger) sessionports.StateStore {
	if db == nil {
		return sessionmemory.NewStateStore()
	}
	logger.Info("session state store configured with postgres")
	return sessionpostgres.NewStateStore(db, ttl)
}

// buildEventListener always logs order events and additionally publishes
// them to RabbitMQ when a broker URL is configured.
func buildEventListener(cfg Config, logger *slog.Logger) (checkoutports.EventListener, func()) {
	listeners := checkoutports.Fanout{checkoutevents.NewLogListener(logger)}
	if cfg.RabbitURL == "" {
		return listeners, func() {}
	}
	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, order events will only be logged", slog.String("error", err.Error()))
		return listeners, func() {}
	}
	publisher, err := checkoutevents.NewRabbitPublisher(conn, "portal-storefront-api", logger)
	if err != nil {
		logger.Warn("failed to set up RabbitMQ publisher, order events will only be logged", slog.String("error", err.Error()))
		_ = conn.Close()
		return listeners, func() {}
	}
	logger.Info("order events publishing to RabbitMQ")
	listeners = append(listeners, publisher)
	return listeners, func() {
		_ = publisher.Close()
		_ = conn.Close()
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
