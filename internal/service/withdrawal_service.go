package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/logger"
	"pix-gateway/pkg/money"
	"pix-gateway/pkg/pixkey"
	"pix-gateway/pkg/retry"
	"pix-gateway/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WithdrawalConfig bounds amounts (centavos) and drives PSP retries.
type WithdrawalConfig struct {
	MinAmount       int64
	MaxAmount       int64
	TenantMaxAmount map[uuid.UUID]int64
	PayerPixKey     string
	Retry           retry.Policy
}

// CeilingFor returns the tenant's maximum withdrawal amount.
func (c WithdrawalConfig) CeilingFor(tenantID uuid.UUID) int64 {
	if v, ok := c.TenantMaxAmount[tenantID]; ok {
		return v
	}
	return c.MaxAmount
}

type withdrawalService struct {
	repo     ports.WithdrawalRepository
	scorer   ports.FraudScorer
	audit    ports.AuditService
	notifier ports.NotificationService
	psp      ports.DisbursementClient
	cfg      WithdrawalConfig
	counters *telemetry.Counters
	tracer   trace.Tracer
	log      zerolog.Logger
	now      func() time.Time
}

// NewWithdrawalService wires the withdrawal lifecycle.
func NewWithdrawalService(
	repo ports.WithdrawalRepository,
	scorer ports.FraudScorer,
	audit ports.AuditService,
	notifier ports.NotificationService,
	psp ports.DisbursementClient,
	cfg WithdrawalConfig,
	counters *telemetry.Counters,
	log zerolog.Logger,
) ports.WithdrawalService {
	return &withdrawalService{
		repo:     repo,
		scorer:   scorer,
		audit:    audit,
		notifier: notifier,
		psp:      psp,
		cfg:      cfg,
		counters: counters,
		tracer:   telemetry.Tracer(),
		log:      log,
		now:      time.Now,
	}
}

// Create validates and stores a pending withdrawal, scored for fraud.
func (s *withdrawalService) Create(ctx context.Context, rc domain.RequestContext, req ports.CreateWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if err := s.checkAmount(rc.TenantID, req.Amount); err != nil {
		return nil, err
	}
	key, err := pixkey.Normalize(string(req.PixKeyType), req.PixKey)
	if err != nil {
		return nil, apperror.Validation("invalid pix key: " + err.Error())
	}
	name := strings.TrimSpace(req.RecipientName)
	if name == "" {
		return nil, apperror.Validation("recipient name is required")
	}

	now := s.now().UTC()
	w := &domain.WithdrawalRequest{
		ID:            uuid.New(),
		TenantID:      rc.TenantID,
		UserID:        rc.ActorID,
		Amount:        req.Amount,
		PixKey:        key,
		PixKeyType:    req.PixKeyType,
		RecipientName: name,
		Status:        domain.WithdrawalStatusPending,
		OriginIP:      rc.IPAddress,
		RequestedAt:   now,
		UpdatedAt:     now,
	}

	risk := s.scorer.Assess(ctx, rc.TenantID, rc.ActorID, domain.ScoringInput{
		Amount:      w.Amount,
		PixKey:      w.PixKey,
		IPAddress:   rc.IPAddress,
		RequestedAt: now,
	})
	w.RiskScore = risk.Score
	w.RiskIndicators = risk.Indicators

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create withdrawal: %w", err))
	}

	in := auditInputFor(rc, domain.AuditActionCreate, nil, w)
	in.Risk = &risk
	s.audit.Log(ctx, in)
	s.notifier.Dispatch(ctx, w, "")

	reqLog := logger.WithRequest(s.log, rc)
	reqLog.Info().
		Str("withdrawal_id", w.ID.String()).
		Int64("amount", w.Amount).
		Str("pix_key", pixkey.Mask(w.PixKey)).
		Int("risk_score", w.RiskScore).
		Msg("withdrawal requested")

	return w, nil
}

// Approve moves a pending withdrawal to approved and immediately disburses
// it. Disbursement runs detached from the caller's cancellation so a client
// disconnect cannot leave money half-sent.
func (s *withdrawalService) Approve(ctx context.Context, rc domain.RequestContext, id uuid.UUID, notes string) (*domain.WithdrawalRequest, error) {
	current, err := s.load(ctx, rc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.WithdrawalStatusPending {
		return nil, apperror.ErrInvalidStateTransition(string(current.Status), string(domain.WithdrawalStatusApproved))
	}

	now := s.now().UTC()
	admin := rc.ActorID
	approved := current.Clone()
	approved.Status = domain.WithdrawalStatusApproved
	approved.AdminID = &admin
	approved.ApprovedAt = &now
	approved.AppendNote(notes)

	if err := s.transition(ctx, rc, current, approved, domain.AuditActionApprove, nil); err != nil {
		return nil, err
	}

	return s.disburse(context.WithoutCancel(ctx), rc.AsSystem(), approved), nil
}

// Reject moves a pending withdrawal to rejected. The reason is checked
// before anything is read or written.
func (s *withdrawalService) Reject(ctx context.Context, rc domain.RequestContext, id uuid.UUID, reason, notes string) (*domain.WithdrawalRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation("rejection reason is required")
	}

	current, err := s.load(ctx, rc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.WithdrawalStatusPending {
		return nil, apperror.ErrInvalidStateTransition(string(current.Status), string(domain.WithdrawalStatusRejected))
	}

	admin := rc.ActorID
	rejected := current.Clone()
	rejected.Status = domain.WithdrawalStatusRejected
	rejected.RejectionReason = reason
	rejected.AdminID = &admin
	rejected.AppendNote(notes)

	if err := s.transition(ctx, rc, current, rejected, domain.AuditActionReject, nil); err != nil {
		return nil, err
	}
	return rejected, nil
}

// Get returns a withdrawal. Users only see their own.
func (s *withdrawalService) Get(ctx context.Context, rc domain.RequestContext, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	w, err := s.load(ctx, rc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !rc.IsAdmin() && w.UserID != rc.ActorID {
		return nil, apperror.ErrNotFound("Withdrawal")
	}
	return w, nil
}

// List returns the tenant's withdrawals; users are limited to their own.
func (s *withdrawalService) List(ctx context.Context, rc domain.RequestContext, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	params.TenantID = rc.TenantID
	if !rc.IsAdmin() {
		user := rc.ActorID
		params.UserID = &user
	}
	params.Page, params.PageSize = NormalizePage(params.Page, params.PageSize)

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list withdrawals: %w", err))
	}
	return items, total, nil
}

// Settle completes a processing withdrawal from a PSP confirmation.
func (s *withdrawalService) Settle(ctx context.Context, rc domain.RequestContext, w *domain.WithdrawalRequest, result ports.PixSendResult) (*domain.WithdrawalRequest, error) {
	if w.Status != domain.WithdrawalStatusProcessing {
		return nil, apperror.ErrInvalidStateTransition(string(w.Status), string(domain.WithdrawalStatusCompleted))
	}
	if result.EndToEndID == "" {
		return nil, apperror.Validation("end-to-end id is required to complete a withdrawal")
	}
	return s.complete(ctx, rc, w, result)
}

// Abandon fails a processing withdrawal the PSP never accepted.
func (s *withdrawalService) Abandon(ctx context.Context, rc domain.RequestContext, w *domain.WithdrawalRequest, reason string) (*domain.WithdrawalRequest, error) {
	if w.Status != domain.WithdrawalStatusProcessing {
		return nil, apperror.ErrInvalidStateTransition(string(w.Status), string(domain.WithdrawalStatusFailed))
	}
	failed := w.Clone()
	failed.Status = domain.WithdrawalStatusFailed
	failed.AppendNote("disbursement failed: " + reason)

	if err := s.transition(ctx, rc, w, failed, domain.AuditActionFail, map[string]any{"reason": reason}); err != nil {
		return nil, err
	}
	return failed, nil
}

// disburse runs approved -> processing -> completed|failed and returns the
// latest known state. It never returns an error: PSP failures become the
// failed status with the reason in the admin notes.
func (s *withdrawalService) disburse(ctx context.Context, rc domain.RequestContext, approved *domain.WithdrawalRequest) *domain.WithdrawalRequest {
	ctx, span := s.tracer.Start(ctx, "withdrawal.disburse", trace.WithAttributes(
		attribute.String("withdrawal.id", approved.ID.String()),
		attribute.String("tenant.id", approved.TenantID.String()),
	))
	defer span.End()

	log := logger.WithRequest(s.log, rc).With().Str("withdrawal_id", approved.ID.String()).Logger()

	now := s.now().UTC()
	processing := approved.Clone()
	processing.Status = domain.WithdrawalStatusProcessing
	processing.ProcessedAt = &now

	if err := s.transition(ctx, rc, approved, processing, domain.AuditActionProcess, nil); err != nil {
		log.Warn().Err(err).Msg("withdrawal: could not start processing")
		span.SetStatus(codes.Error, err.Error())
		return s.reload(ctx, approved)
	}

	if reason := s.validateDisbursement(processing); reason != "" {
		log.Warn().Str("reason", reason).Msg("withdrawal: failed disbursement validation")
		span.SetStatus(codes.Error, reason)
		return s.fail(ctx, rc, processing, "validation: "+reason)
	}

	result, err := s.send(ctx, log, processing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "psp send failed")
		return s.fail(ctx, rc, processing, pspFailureReason(err, s.cfg.Retry.MaxAttempts))
	}
	if result.EndToEndID == "" {
		span.SetStatus(codes.Error, "missing end-to-end id")
		return s.fail(ctx, rc, processing, "PSP response missing end-to-end id")
	}

	completed, err := s.complete(ctx, rc, processing, *result)
	if err != nil {
		log.Warn().Err(err).Msg("withdrawal: completion lost to a concurrent update")
		return s.reload(ctx, processing)
	}

	log.Info().Str("end_to_end_id", completed.EndToEndID).Msg("withdrawal completed")
	return completed
}

// send calls the PSP under the retry policy. Before each re-attempt the send
// id is looked up so a transfer the PSP already accepted is not sent again.
func (s *withdrawalService) send(ctx context.Context, log zerolog.Logger, w *domain.WithdrawalRequest) (*ports.PixSendResult, error) {
	req := ports.PixSendRequest{
		SendID:        w.SendID(),
		Amount:        w.Amount,
		PayerPixKey:   s.cfg.PayerPixKey,
		PixKey:        w.PixKey,
		RecipientName: w.RecipientName,
		Description:   "Saque " + w.SendID()[:8],
	}

	policy := s.cfg.Retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("withdrawal: transient PSP failure, retrying")
	}

	return retry.Do(ctx, policy, func(ctx context.Context, attempt int) (*ports.PixSendResult, error) {
		if attempt > 1 {
			found, err := s.psp.FindSent(ctx, req.SendID)
			switch {
			case err != nil:
				log.Warn().Err(err).Msg("withdrawal: PSP lookup failed, re-sending with the same id")
			case found != nil && found.Rejected():
				return nil, apperror.ErrFatalPsp("PSP reported the transfer as not completed", nil)
			case found != nil:
				log.Info().Int("attempt", attempt).Msg("withdrawal: PSP already has this transfer")
				return found, nil
			}
		}
		telemetry.Inc(ctx, s.counters.PspSendAttempts, "attempt", strconv.Itoa(attempt))
		return s.psp.SendPix(ctx, req)
	})
}

func (s *withdrawalService) complete(ctx context.Context, rc domain.RequestContext, processing *domain.WithdrawalRequest, result ports.PixSendResult) (*domain.WithdrawalRequest, error) {
	now := s.now().UTC()
	completed := processing.Clone()
	completed.Status = domain.WithdrawalStatusCompleted
	completed.PspTransactionID = result.SendID
	if completed.PspTransactionID == "" {
		completed.PspTransactionID = processing.SendID()
	}
	completed.EndToEndID = result.EndToEndID
	completed.CompletedAt = &now

	meta := map[string]any{"end_to_end_id": result.EndToEndID, "psp_status": result.Status}
	if err := s.transition(ctx, rc, processing, completed, domain.AuditActionComplete, meta); err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *withdrawalService) fail(ctx context.Context, rc domain.RequestContext, processing *domain.WithdrawalRequest, reason string) *domain.WithdrawalRequest {
	failed, err := s.Abandon(ctx, rc, processing, reason)
	if err != nil {
		reqLog := logger.WithRequest(s.log, rc)
		reqLog.Error().Err(err).
			Str("withdrawal_id", processing.ID.String()).
			Msg("withdrawal: could not record failure")
		return s.reload(ctx, processing)
	}
	return failed
}

// transition persists before -> after with a compare-and-set on the prior
// status, then audits and notifies. A lost race has no side effects.
func (s *withdrawalService) transition(
	ctx context.Context,
	rc domain.RequestContext,
	before, after *domain.WithdrawalRequest,
	action domain.AuditAction,
	meta map[string]any,
) error {
	if !before.Status.CanTransitionTo(after.Status) {
		return apperror.ErrInvalidStateTransition(string(before.Status), string(after.Status))
	}
	after.UpdatedAt = s.now().UTC()

	if err := s.repo.Transition(ctx, before.Status, after); err != nil {
		if errors.Is(err, ports.ErrStatusConflict) {
			reqLog := logger.WithRequest(s.log, rc)
			reqLog.Info().
				Str("withdrawal_id", after.ID.String()).
				Str("from", string(before.Status)).
				Str("to", string(after.Status)).
				Msg("withdrawal: concurrent modification")
			return apperror.ErrConcurrentModification()
		}
		return apperror.ErrDatabaseError(fmt.Errorf("transition %s->%s: %w", before.Status, after.Status, err))
	}

	in := auditInputFor(rc, action, before, after)
	in.Metadata = meta
	s.audit.Log(ctx, in)
	s.notifier.Dispatch(ctx, after, before.Status)
	return nil
}

func (s *withdrawalService) validateDisbursement(w *domain.WithdrawalRequest) string {
	if s.cfg.PayerPixKey == "" {
		return "payer pix key is not configured"
	}
	if w.Amount <= 0 {
		return "amount must be greater than zero"
	}
	if ceiling := s.cfg.CeilingFor(w.TenantID); w.Amount < s.cfg.MinAmount || w.Amount > ceiling {
		return fmt.Sprintf("amount %s outside the allowed range %s to %s",
			money.FormatBRL(w.Amount), money.FormatBRL(s.cfg.MinAmount), money.FormatBRL(ceiling))
	}
	if err := pixkey.Validate(string(w.PixKeyType), w.PixKey); err != nil {
		return "destination key: " + err.Error()
	}
	if strings.TrimSpace(w.RecipientName) == "" {
		return "recipient name is empty"
	}
	return ""
}

func (s *withdrawalService) checkAmount(tenantID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperror.Validation("amount must be greater than zero")
	}
	if amount < s.cfg.MinAmount {
		return apperror.Validation("amount is below the minimum of " + money.FormatBRL(s.cfg.MinAmount))
	}
	if ceiling := s.cfg.CeilingFor(tenantID); amount > ceiling {
		return apperror.Validation("amount exceeds the withdrawal limit of " + money.FormatBRL(ceiling))
	}
	return nil
}

func (s *withdrawalService) load(ctx context.Context, tenantID, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	w, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get withdrawal: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("Withdrawal")
	}
	return w, nil
}

// reload returns the stored state, falling back to the last local copy.
func (s *withdrawalService) reload(ctx context.Context, w *domain.WithdrawalRequest) *domain.WithdrawalRequest {
	stored, err := s.repo.GetByID(ctx, w.TenantID, w.ID)
	if err != nil || stored == nil {
		return w
	}
	return stored
}

func auditInputFor(rc domain.RequestContext, action domain.AuditAction, before, after *domain.WithdrawalRequest) ports.AuditInput {
	in := ports.AuditInput{
		TenantID:     after.TenantID,
		ActorID:      rc.ActorID,
		ActorType:    rc.ActorType,
		Action:       action,
		ResourceType: domain.ResourceWithdrawalRequest,
		ResourceID:   after.ID.String(),
		After:        after,
		IPAddress:    rc.IPAddress,
		ClientID:     rc.ClientID,
	}
	if before != nil {
		in.Before = before
	}
	return in
}

func pspFailureReason(err error, attempts int) string {
	if retry.IsTransient(err) {
		return fmt.Sprintf("PSP unavailable after %d attempts: %v", attempts, err)
	}
	return "PSP rejected transfer: " + err.Error()
}
