package main

import (
	"context"
	"log"

	"github.com/amushan/portal-storefront/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("storefront api failed: %v", err)
	}
}
