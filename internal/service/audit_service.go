package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	auditWriteTimeout  = 5 * time.Second
	suspiciousLookback = 24 * time.Hour
)

type auditService struct {
	repo     ports.AuditRepository
	scorer   ports.FraudScorer
	counters *telemetry.Counters
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuditService creates the audit log writer. Creating a withdrawal
// without a precomputed assessment makes the writer call scorer.
func NewAuditService(repo ports.AuditRepository, scorer ports.FraudScorer, counters *telemetry.Counters, log zerolog.Logger) ports.AuditService {
	return &auditService{
		repo:     repo,
		scorer:   scorer,
		counters: counters,
		log:      log,
		now:      time.Now,
	}
}

// Log appends one entry and returns it, persisted or not. The write runs on
// a context detached from the caller's cancellation.
func (s *auditService) Log(ctx context.Context, in ports.AuditInput) *domain.AuditLogEntry {
	entry := &domain.AuditLogEntry{
		ID:           uuid.New(),
		TenantID:     in.TenantID,
		ActorType:    in.ActorType,
		Action:       in.Action,
		ResourceType: in.ResourceType,
		ResourceID:   in.ResourceID,
		Before:       s.snapshot(in.Before),
		After:        s.snapshot(in.After),
		IPAddress:    in.IPAddress,
		ClientID:     in.ClientID,
		Metadata:     in.Metadata,
		CreatedAt:    s.now().UTC(),
	}
	if in.ActorID != uuid.Nil {
		actor := in.ActorID
		entry.ActorID = &actor
	}

	if risk := s.assess(ctx, in); risk != nil {
		score := risk.Score
		entry.RiskScore = &score
		entry.RiskIndicators = risk.Indicators
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.repo.Create(wctx, entry); err != nil {
		s.log.Error().Err(apperror.ErrAuditWrite(err)).
			Str("tenant_id", entry.TenantID.String()).
			Str("action", string(entry.Action)).
			Str("resource_type", string(entry.ResourceType)).
			Str("resource_id", entry.ResourceID).
			Msg("audit: failed to persist entry")
		telemetry.Inc(ctx, s.counters.AuditWriteFailures, "action", string(entry.Action))
		return entry
	}

	s.log.Debug().
		Str("action", string(entry.Action)).
		Str("resource_type", string(entry.ResourceType)).
		Str("resource_id", entry.ResourceID).
		Msg("audit")
	return entry
}

func (s *auditService) assess(ctx context.Context, in ports.AuditInput) *domain.RiskAssessment {
	if in.ResourceType != domain.ResourceWithdrawalRequest || in.Action != domain.AuditActionCreate {
		return nil
	}
	if in.Risk != nil {
		return in.Risk
	}
	w, ok := in.After.(*domain.WithdrawalRequest)
	if !ok || w == nil || s.scorer == nil {
		return nil
	}
	a := s.scorer.Assess(ctx, w.TenantID, w.UserID, domain.ScoringInput{
		Amount:      w.Amount,
		PixKey:      w.PixKey,
		IPAddress:   in.IPAddress,
		RequestedAt: w.RequestedAt,
	})
	return &a
}

func (s *auditService) snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn().Err(err).Msg("audit: snapshot not serialisable")
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	return b
}

func (s *auditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int64, error) {
	filter.Page, filter.PageSize = NormalizePage(filter.Page, filter.PageSize)
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, apperror.Validation("to must not be before from")
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list audit logs: %w", err))
	}
	return entries, total, nil
}

func (s *auditService) FraudStatistics(ctx context.Context, tenantID uuid.UUID) (*domain.FraudStatistics, error) {
	stats, err := s.repo.FraudStatistics(ctx, tenantID, s.now().Add(-suspiciousLookback))
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fraud statistics: %w", err))
	}
	return stats, nil
}
