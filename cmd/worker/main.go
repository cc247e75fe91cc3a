package main

import (
	"context"
	"fmt"
	"os"

	"pix-gateway/config"
	"pix-gateway/internal/adapter/queue"
	"pix-gateway/internal/app"
	"pix-gateway/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PIXGW_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config:\n%v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if cfg.Storage.Driver == "memory" {
		log.Fatal().Msg("storage.driver=memory runs the worker inside the API process; start cmd/api instead")
	}

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise worker")
	}
	defer a.Close()

	srv := queue.NewServer(a.RedisConnOpt(), cfg.Worker.Concurrency, log)
	mux := queue.NewServeMux(queue.NewWorker(a.Reconciler, log))

	log.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("Reconciliation worker starting")
	// Run blocks until SIGINT or SIGTERM.
	if err := srv.Run(mux); err != nil {
		log.Error().Err(err).Msg("Reconciliation worker stopped")
	}
	log.Info().Msg("Worker exited")
}
