package service

import (
	"context"
	"fmt"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventDedupeTTL is how long a reconciled webhook event is remembered.
const EventDedupeTTL = 7 * 24 * time.Hour

type reconciliationService struct {
	withdrawals ports.WithdrawalRepository
	lifecycle   ports.WithdrawalService
	audit       ports.AuditService
	dedupe      ports.EventDeduper
	charges     ports.ChargeSettler
	log         zerolog.Logger
}

// NewReconciliationService applies PSP webhook events to withdrawals and
// hands everything else to charges.
func NewReconciliationService(
	withdrawals ports.WithdrawalRepository,
	lifecycle ports.WithdrawalService,
	audit ports.AuditService,
	dedupe ports.EventDeduper,
	charges ports.ChargeSettler,
	log zerolog.Logger,
) ports.ReconciliationService {
	return &reconciliationService{
		withdrawals: withdrawals,
		lifecycle:   lifecycle,
		audit:       audit,
		dedupe:      dedupe,
		charges:     charges,
		log:         log,
	}
}

func (s *reconciliationService) ReconcilePix(ctx context.Context, evt domain.PixEvent) error {
	if evt.EndToEndID == "" {
		return apperror.Validation("pix event without end-to-end id")
	}
	return s.once(ctx, evt.DedupeKey(), func() error { return s.applyPix(ctx, evt) })
}

func (s *reconciliationService) ReconcileRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error {
	if evt.RecurrenceID == "" || evt.Status == "" {
		return apperror.Validation("recurrence event without id or status")
	}
	return s.once(ctx, evt.DedupeKey(), func() error {
		return s.charges.SettleRecurrence(ctx, evt)
	})
}

// once runs apply the first time key is seen. A failed apply forgets the key
// so the redelivered task can try again.
func (s *reconciliationService) once(ctx context.Context, key string, apply func() error) error {
	fresh, err := s.dedupe.MarkSeen(ctx, key, EventDedupeTTL)
	if err != nil {
		return fmt.Errorf("dedupe %s: %w", key, err)
	}
	if !fresh {
		s.log.Debug().Str("event_key", key).Msg("reconcile: duplicate event skipped")
		return nil
	}

	if err := apply(); err != nil {
		if ferr := s.dedupe.Forget(ctx, key); ferr != nil {
			s.log.Error().Err(ferr).Str("event_key", key).Msg("reconcile: could not release event key")
		}
		return err
	}
	return nil
}

func (s *reconciliationService) applyPix(ctx context.Context, evt domain.PixEvent) error {
	w, err := s.match(ctx, evt)
	if err != nil {
		return err
	}
	if w == nil {
		return s.charges.SettleCharge(ctx, evt)
	}

	rc := domain.SystemContext(w.TenantID, evt.EndToEndID)
	log := s.log.With().
		Str("withdrawal_id", w.ID.String()).
		Str("end_to_end_id", evt.EndToEndID).
		Logger()

	if evt.Amount != 0 && evt.Amount != w.Amount {
		log.Warn().Int64("event_amount", evt.Amount).Int64("amount", w.Amount).
			Msg("reconcile: webhook amount differs from withdrawal")
	}

	switch w.Status {
	case domain.WithdrawalStatusProcessing:
		_, err := s.lifecycle.Settle(ctx, rc, w, ports.PixSendResult{
			SendID:     w.SendID(),
			EndToEndID: evt.EndToEndID,
			Status:     ports.PixStatusSettled,
			Amount:     evt.Amount,
		})
		if apperror.HasCode(err, apperror.CodeConcurrentModification) {
			log.Info().Msg("reconcile: withdrawal settled concurrently")
			return nil
		}
		if err != nil {
			return fmt.Errorf("settle withdrawal %s: %w", w.ID, err)
		}
		log.Info().Msg("reconcile: withdrawal completed from webhook")
		return nil

	default:
		s.audit.Log(ctx, ports.AuditInput{
			TenantID:     w.TenantID,
			ActorType:    domain.ActorTypeSystem,
			Action:       domain.AuditActionReconcile,
			ResourceType: domain.ResourceWithdrawalRequest,
			ResourceID:   w.ID.String(),
			Metadata: map[string]any{
				"end_to_end_id":  evt.EndToEndID,
				"status":         string(w.Status),
				"amount":         evt.Amount,
				"amount_matches": evt.Amount == 0 || evt.Amount == w.Amount,
			},
		})
		if w.Status != domain.WithdrawalStatusCompleted {
			log.Warn().Str("status", string(w.Status)).Msg("reconcile: webhook for a withdrawal that is not in flight")
		}
		return nil
	}
}

func (s *reconciliationService) match(ctx context.Context, evt domain.PixEvent) (*domain.WithdrawalRequest, error) {
	if evt.SendID != "" {
		w, err := s.withdrawals.GetBySendID(ctx, evt.SendID)
		if err != nil {
			return nil, fmt.Errorf("find withdrawal by send id: %w", err)
		}
		if w != nil {
			return w, nil
		}
	}
	w, err := s.withdrawals.GetByEndToEndID(ctx, evt.EndToEndID)
	if err != nil {
		return nil, fmt.Errorf("find withdrawal by end-to-end id: %w", err)
	}
	return w, nil
}

// chargeLedger is the ChargeSettler used when no charge system is attached:
// it records inbound payments in the audit log under the nil tenant.
type chargeLedger struct {
	audit ports.AuditService
	log   zerolog.Logger
}

// NewChargeLedger creates the default ChargeSettler.
func NewChargeLedger(audit ports.AuditService, log zerolog.Logger) ports.ChargeSettler {
	return &chargeLedger{audit: audit, log: log}
}

func (c *chargeLedger) SettleCharge(ctx context.Context, evt domain.PixEvent) error {
	c.log.Info().
		Str("end_to_end_id", evt.EndToEndID).
		Str("txid", evt.TxID).
		Int64("amount", evt.Amount).
		Msg("charge paid")

	c.audit.Log(ctx, ports.AuditInput{
		TenantID:     uuid.Nil,
		ActorType:    domain.ActorTypeSystem,
		Action:       domain.AuditActionChargePaid,
		ResourceType: domain.ResourceCharge,
		ResourceID:   chargeID(evt),
		After:        evt,
	})
	return nil
}

func (c *chargeLedger) SettleRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error {
	c.log.Info().
		Str("recurrence_id", evt.RecurrenceID).
		Str("status", evt.Status).
		Msg("recurrence updated")

	c.audit.Log(ctx, ports.AuditInput{
		TenantID:     uuid.Nil,
		ActorType:    domain.ActorTypeSystem,
		Action:       domain.AuditActionRecurrence,
		ResourceType: domain.ResourceRecurrence,
		ResourceID:   evt.RecurrenceID,
		After:        evt,
	})
	return nil
}

func chargeID(evt domain.PixEvent) string {
	if evt.TxID != "" {
		return evt.TxID
	}
	return evt.EndToEndID
}
