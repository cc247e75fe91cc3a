package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	sweepLockKey      = "stale-sweep"
	abandonReason     = "PSP never received the transfer"
	rejectedReason    = "PSP reported the transfer as not completed"
	defaultSweepBatch = 100
)

// SweeperConfig controls the stale processing sweep.
type SweeperConfig struct {
	StaleAfter time.Duration
	BatchSize  int
	LockTTL    time.Duration
	RunTimeout time.Duration
}

// Sweeper resolves withdrawals left in processing, typically after a crash
// between the PSP call and the final transition.
type Sweeper struct {
	withdrawals ports.WithdrawalRepository
	lifecycle   ports.WithdrawalService
	psp         ports.DisbursementClient
	locker      ports.Locker
	cfg         SweeperConfig
	log         zerolog.Logger
	now         func() time.Time
}

func NewSweeper(
	withdrawals ports.WithdrawalRepository,
	lifecycle ports.WithdrawalService,
	psp ports.DisbursementClient,
	locker ports.Locker,
	cfg SweeperConfig,
	log zerolog.Logger,
) *Sweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultSweepBatch
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 4 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.RunTimeout + time.Minute
	}
	return &Sweeper{
		withdrawals: withdrawals,
		lifecycle:   lifecycle,
		psp:         psp,
		locker:      locker,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Sweep checks each stale processing withdrawal at the PSP once. It returns
// how many were moved to a terminal status. Only one process sweeps at a time.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	lock, err := s.locker.Obtain(ctx, sweepLockKey, s.cfg.LockTTL)
	if errors.Is(err, ports.ErrLockHeld) {
		s.log.Debug().Msg("sweeper: another instance is running")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("obtain sweep lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn().Err(err).Msg("sweeper: release lock")
		}
	}()

	cutoff := s.now().UTC().Add(-s.cfg.StaleAfter)
	stale, err := s.withdrawals.ListStale(ctx, domain.WithdrawalStatusProcessing, cutoff, s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale withdrawals: %w", err)
	}

	resolved := 0
	for i := range stale {
		if ctx.Err() != nil {
			break
		}
		w := &stale[i]
		done, err := s.resolve(ctx, w)
		if err != nil {
			s.log.Error().Err(err).Str("withdrawal_id", w.ID.String()).Msg("sweeper: could not resolve withdrawal")
			continue
		}
		if done {
			resolved++
		}
	}

	if len(stale) > 0 {
		s.log.Info().Int("stale", len(stale)).Int("resolved", resolved).Msg("sweeper: pass finished")
	}
	return resolved, nil
}

func (s *Sweeper) resolve(ctx context.Context, w *domain.WithdrawalRequest) (bool, error) {
	rc := domain.SystemContext(w.TenantID, uuid.NewString())

	found, err := s.psp.FindSent(ctx, w.SendID())
	if err != nil {
		return false, fmt.Errorf("look up send id: %w", err)
	}

	switch {
	case found == nil:
		_, err = s.lifecycle.Abandon(ctx, rc, w, abandonReason)
	case found.Rejected():
		_, err = s.lifecycle.Abandon(ctx, rc, w, rejectedReason)
	case found.EndToEndID == "":
		// Accepted but not settled yet; the webhook or a later pass finishes it.
		return false, nil
	default:
		_, err = s.lifecycle.Settle(ctx, rc, w, *found)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Start schedules Sweep on spec and starts the scheduler. Overlapping runs
// are skipped. Stop the returned cron on shutdown.
func (s *Sweeper) Start(spec string) (*cron.Cron, error) {
	cl := cronLogger{log: s.log}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error().Err(err).Msg("sweeper: pass failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule sweeper %q: %w", spec, err)
	}
	c.Start()
	s.log.Info().Str("schedule", spec).Msg("sweeper scheduled")
	return c, nil
}

// cronLogger routes cron's logging to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
