package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	checkoutapp "github.com/amushan/portal-storefront/internal/domains/checkout/application"
	sessionpostgres "github.com/amushan/portal-storefront/internal/domains/session/adapters/persistence/postgres"
)

// Config carries environment-driven settings for the storefront API process.
type Config struct {
	Port              string
	PostgresDSN       string
	OrderAPIBaseURL   string
	CatalogBaseURL    string
	EngagementBaseURL string
	RabbitURL         string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	CheckoutTimeout   time.Duration
	StateTTL          time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		OrderAPIBaseURL:   strings.TrimSpace(os.Getenv("ORDER_API_BASE_URL")),
		CatalogBaseURL:    strings.TrimSpace(os.Getenv("CATALOG_API_BASE_URL")),
		EngagementBaseURL: strings.TrimSpace(os.Getenv("ENGAGEMENT_BASE_URL")),
		RabbitURL:         strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		CheckoutTimeout:   checkoutapp.DefaultSubmitTimeout,
		StateTTL:          sessionpostgres.DefaultStateTTL,
	}
	if cfg.OrderAPIBaseURL == "" {
		return Config{}, fmt.Errorf("ORDER_API_BASE_URL must be set")
	}
	// The upstream portal serves orders, catalog, and engagement from one
	// host; split them only when the env says so.
	if cfg.CatalogBaseURL == "" {
		cfg.CatalogBaseURL = cfg.OrderAPIBaseURL
	}
	if cfg.EngagementBaseURL == "" {
		cfg.EngagementBaseURL = cfg.OrderAPIBaseURL
	}
	if raw := strings.TrimSpace(os.Getenv("CHECKOUT_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("CHECKOUT_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.CheckoutTimeout = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("STATE_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("STATE_TTL_HOURS must be a positive integer")
		}
		cfg.StateTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
