package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	sessionpostgres "github.com/amushan/portal-storefront/internal/domains/session/adapters/persistence/postgres"
	platformpostgres "github.com/amushan/portal-storefront/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge session state")
	}

	store := sessionpostgres.NewStateStore(db, stateTTLFromEnv())
	if err := store.PurgeExpired(ctx); err != nil {
		log.Fatalf("failed to purge session state: %v", err)
	}
	log.Printf("session state purge completed")
}

func stateTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("STATE_TTL_HOURS"))
	if raw == "" {
		return sessionpostgres.DefaultStateTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return sessionpostgres.DefaultStateTTL
	}
	return time.Duration(hours) * time.Hour
}
