package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pix-gateway/config"
	httpHandler "pix-gateway/internal/adapter/http/handler"
	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/adapter/queue"
	"pix-gateway/internal/app"
	"pix-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
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
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Int("webhook_port", cfg.Webhook.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting PIX gateway")

	ctx := context.Background()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise gateway")
	}
	defer a.Close()

	queueClient := asynq.NewClient(a.RedisConnOpt())
	defer queueClient.Close()
	webhookHandler := httpHandler.NewWebhookHandler(queue.NewPublisher(queueClient, log), log)

	// With in-memory storage the worker must share this process.
	var embedded *asynq.Server
	if cfg.Storage.Driver == "memory" {
		embedded = queue.NewServer(a.RedisConnOpt(), cfg.Worker.Concurrency, log)
		if err := embedded.Start(queue.NewServeMux(queue.NewWorker(a.Reconciler, log))); err != nil {
			log.Fatal().Err(err).Msg("Failed to start embedded reconciliation worker")
		}
	}

	sweeper, err := a.Sweeper.Start(cfg.Worker.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule sweeper")
	}

	apiRouter := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WithdrawalSvc:   a.Withdrawal,
		AuditSvc:        a.Audit,
		NotificationSvc: a.Notifications,
		TokenSvc:        a.Tokens,
		RateLimitStore:  a.RateLimits,
		HealthCheckers:  a.HealthCheckers,
		Logger:          log,
	})
	webhookRouter := httpHandler.SetupWebhookRouter(httpHandler.WebhookRouterDeps{
		Handler: webhookHandler,
		Auth: middleware.WebhookAuthConfig{
			PublicBaseURL: cfg.Webhook.PublicBaseURL,
			HMACSecret:    cfg.Webhook.HMACSecret,
			TrustedIP:     cfg.Webhook.PSPIP,
		},
		Signer:         a.Signer,
		Counters:       a.Counters,
		HealthCheckers: a.HealthCheckers,
		Logger:         log,
	})

	tlsCfg, err := httpHandler.ServerTLSConfig(cfg.Webhook.CertFile, cfg.Webhook.KeyFile, cfg.Webhook.PSPCAFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load webhook TLS material")
	}

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: apiRouter,
	}
	webhookSrv := &http.Server{
		Addr:      fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Webhook.Port),
		Handler:   webhookRouter,
		TLSConfig: tlsCfg,
	}

	go func() {
		log.Info().Str("addr", apiSrv.Addr).Msg("API server listening")
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()
	go func() {
		log.Info().Str("addr", webhookSrv.Addr).Msg("Webhook gateway listening (TLS)")
		if err := webhookSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Webhook gateway failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()

	if err := webhookSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Webhook gateway forced to shutdown")
	}
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server forced to shutdown")
	}
	webhookHandler.Wait()

	<-sweeper.Stop().Done()
	if embedded != nil {
		embedded.Shutdown()
	}

	log.Info().Msg("Gateway exited")
}
