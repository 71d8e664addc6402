package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rl1809/shirt-inventory/internal/app"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/core/service"
	"github.com/rl1809/shirt-inventory/internal/platform/logging"
	"github.com/rl1809/shirt-inventory/internal/seed"
)

func main() {
	count := flag.Int("n", 10, "number of shirts to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	shirtService := service.NewShirtService(store.Repo, service.Config{Logger: logger})

	seedValue := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(seedValue, seedValue>>1))
	created, err := seed.Run(ctx, shirtService, rng, *count)
	if err != nil {
		logger.Error("seeding failed", "created", len(created), "error", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("seed data has been added", "count", len(created), "driver", cfg.StoreDriver)
}
