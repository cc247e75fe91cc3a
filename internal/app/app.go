// Package app wires configuration into the gateway's services. The API
// server and the reconciliation worker share it.
package app

import (
	"context"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"pix-gateway/config"
	"pix-gateway/internal/adapter/psp"
	"pix-gateway/internal/adapter/storage/memory"
	pgStorage "pix-gateway/internal/adapter/storage/postgres"
	redisStorage "pix-gateway/internal/adapter/storage/redis"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/service"
	"pix-gateway/pkg/retry"
	"pix-gateway/pkg/telemetry"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the wired services of one process.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Redis    *goredis.Client
	Counters *telemetry.Counters

	Withdrawals   ports.WithdrawalRepository
	Audit         ports.AuditService
	Notifications ports.NotificationService
	Withdrawal    ports.WithdrawalService
	Reconciler    ports.ReconciliationService
	Sweeper       *service.Sweeper
	Tokens        *service.JWTTokenService
	Signer        *service.HMACSignatureService
	RateLimits    *redisStorage.RateLimitStore

	HealthCheckers []ports.HealthChecker

	closers []func()
}

// New connects to storage and Redis and builds every service. Call Close
// when done.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Log:      log,
		Counters: telemetry.Default(),
		Tokens:   service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
		Signer:   service.NewHMACSignatureService(),
	}

	var (
		withdrawals   ports.WithdrawalRepository
		auditRepo     ports.AuditRepository
		notifications ports.NotificationRepository
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		withdrawals, auditRepo, notifications = store.Withdrawals, store.Audit, store.Notifications
		a.HealthCheckers = append(a.HealthCheckers, store)
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
	default:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		withdrawals = pgStorage.NewWithdrawalRepo(pool)
		auditRepo = pgStorage.NewAuditRepo(pool)
		notifications = pgStorage.NewNotificationRepo(pool)
		a.HealthCheckers = append(a.HealthCheckers, pgStorage.NewHealthCheck(pool))
	}
	a.Withdrawals = withdrawals

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.Redis = rdb
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	a.HealthCheckers = append(a.HealthCheckers, redisStorage.NewHealthCheck(rdb))
	a.RateLimits = redisStorage.NewRateLimitStore(rdb)

	var tokenCache ports.TokenCache = redisStorage.NewTokenCache(rdb)
	if cfg.PSP.TokenCacheKey != "" {
		if tokenCache, err = service.NewSealedTokenCache(tokenCache, cfg.PSP.TokenCacheKey); err != nil {
			a.Close()
			return nil, fmt.Errorf("psp.token_cache_key: %w", err)
		}
	}
	pspClient, err := newPSPClient(cfg.PSP, tokenCache, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	withdrawalCfg, fraudRules, err := serviceConfig(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	scorer := service.NewFraudService(withdrawals, fraudRules, log)
	a.Audit = service.NewAuditService(auditRepo, scorer, a.Counters, log)
	a.Notifications = service.NewNotificationService(notifications, a.Counters, log)
	a.Withdrawal = service.NewWithdrawalService(withdrawals, scorer, a.Audit, a.Notifications, pspClient, withdrawalCfg, a.Counters, log)
	a.Reconciler = service.NewReconciliationService(
		withdrawals,
		a.Withdrawal,
		a.Audit,
		redisStorage.NewEventDedupe(rdb),
		service.NewChargeLedger(a.Audit, log),
		log,
	)
	a.Sweeper = service.NewSweeper(
		withdrawals,
		a.Withdrawal,
		pspClient,
		redisStorage.NewLocker(rdb),
		service.SweeperConfig{StaleAfter: cfg.Withdrawal.StaleAfter},
		log,
	)
	return a, nil
}

// RedisConnOpt points asynq at the configured Redis.
func (a *App) RedisConnOpt() asynq.RedisClientOpt {
	opts := redisStorage.Options(a.Config.Redis)
	return asynq.RedisClientOpt{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	}
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newPSPClient(cfg config.PSPConfig, cache ports.TokenCache, log zerolog.Logger) (*psp.Client, error) {
	cert, err := psp.LoadCertificate(psp.CertificateSource{
		P12File:     cfg.P12File,
		P12Password: cfg.P12Password,
		CertFile:    cfg.CertFile,
		KeyFile:     cfg.KeyFile,
	})
	if err != nil {
		return nil, err
	}
	var roots *x509.CertPool
	if cfg.CAFile != "" {
		pemData, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read psp.ca_file: %w", err)
		}
		roots = x509.NewCertPool()
		if !roots.AppendCertsFromPEM(pemData) {
			return nil, fmt.Errorf("psp.ca_file holds no certificates")
		}
	}
	return psp.NewClient(psp.Config{
		BaseURL:      cfg.BaseURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Timeout:      cfg.Timeout,
		Certificate:  cert,
		RootCAs:      roots,
	}, cache, log), nil
}

// serviceConfig translates file settings into service settings.
func serviceConfig(cfg *config.Config) (service.WithdrawalConfig, service.FraudRules, error) {
	ceilings, err := cfg.Withdrawal.TenantCeilings()
	if err != nil {
		return service.WithdrawalConfig{}, service.FraudRules{}, err
	}
	loc, err := cfg.Fraud.Location()
	if err != nil {
		return service.WithdrawalConfig{}, service.FraudRules{}, fmt.Errorf("fraud.timezone: %w", err)
	}

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.Withdrawal.RetryAttempts
	if cfg.Withdrawal.RetryBaseDelay > 0 {
		policy.BaseDelay = cfg.Withdrawal.RetryBaseDelay
	}

	return service.WithdrawalConfig{
			MinAmount:       cfg.Withdrawal.MinAmount,
			MaxAmount:       cfg.Withdrawal.MaxAmount,
			TenantMaxAmount: ceilings,
			PayerPixKey:     cfg.PSP.PayerPixKey,
			Retry:           policy,
		}, service.FraudRules{
			DailyLimit: cfg.Fraud.DailyLimit,
			Location:   loc,
		}, nil
}

// ShutdownTimeout bounds graceful shutdown of each server.
const ShutdownTimeout = 15 * time.Second
