package service

import (
	"context"
	"fmt"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/money"
	"pix-gateway/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const notificationTimeout = 5 * time.Second

type notificationService struct {
	repo     ports.NotificationRepository
	counters *telemetry.Counters
	log      zerolog.Logger
	now      func() time.Time
}

// NewNotificationService creates the withdrawal notification dispatcher.
func NewNotificationService(repo ports.NotificationRepository, counters *telemetry.Counters, log zerolog.Logger) ports.NotificationService {
	return &notificationService{
		repo:     repo,
		counters: counters,
		log:      log,
		now:      time.Now,
	}
}

// Dispatch stores one user notification per transition, plus an admin
// notification for new requests and failures. Errors are logged and counted.
func (s *notificationService) Dispatch(ctx context.Context, w *domain.WithdrawalRequest, previous domain.WithdrawalStatus) {
	notifications := buildNotifications(w, previous, s.now().UTC())
	if len(notifications) == 0 {
		s.log.Warn().Str("status", string(w.Status)).Msg("notification: no template for status")
		return
	}

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	defer cancel()

	for _, n := range notifications {
		if err := s.repo.Create(dctx, n); err != nil {
			s.log.Error().Err(apperror.ErrNotificationDispatch(err)).
				Str("withdrawal_id", w.ID.String()).
				Str("type", string(n.Type)).
				Str("audience", string(n.Audience)).
				Msg("notification: dispatch failed")
			telemetry.Inc(ctx, s.counters.NotificationFailures, "type", string(n.Type))
		}
	}
}

func buildNotifications(w *domain.WithdrawalRequest, previous domain.WithdrawalStatus, now time.Time) []*domain.Notification {
	nt, ok := domain.NotificationTypeFor(w.Status)
	if !ok {
		return nil
	}

	data := domain.NotificationData{
		WithdrawalID:   w.ID,
		Amount:         w.Amount,
		Status:         w.Status,
		PreviousStatus: previous,
		PixKeyType:     w.PixKeyType,
	}
	amount := money.FormatBRL(w.Amount)
	user := w.UserID

	newNotification := func(audience domain.Audience, title, message string) *domain.Notification {
		n := &domain.Notification{
			ID:        uuid.New(),
			TenantID:  w.TenantID,
			Audience:  audience,
			Type:      nt,
			Title:     title,
			Message:   message,
			Data:      data,
			CreatedAt: now,
		}
		if audience == domain.AudienceUser {
			n.UserID = &user
		}
		return n
	}

	var out []*domain.Notification
	switch w.Status {
	case domain.WithdrawalStatusPending:
		out = append(out, newNotification(domain.AudienceUser, "Saque solicitado",
			fmt.Sprintf("Seu saque de %s foi recebido e aguarda aprovação.", amount)))

		admin := newNotification(domain.AudienceAdmin, "Novo saque aguardando aprovação",
			fmt.Sprintf("Saque de %s aguardando revisão (risco %d).", amount, w.RiskScore))
		admin.Data.RiskScore = w.RiskScore
		if w.Suspicious() {
			admin.Data.Suspicious = true
			admin.Message += " Marcado como suspeito."
		}
		out = append(out, admin)

	case domain.WithdrawalStatusApproved:
		out = append(out, newNotification(domain.AudienceUser, "Saque aprovado",
			fmt.Sprintf("Seu saque de %s foi aprovado e será enviado em instantes.", amount)))

	case domain.WithdrawalStatusRejected:
		msg := fmt.Sprintf("Seu saque de %s foi recusado.", amount)
		if w.RejectionReason != "" {
			msg += " Motivo: " + w.RejectionReason
		}
		out = append(out, newNotification(domain.AudienceUser, "Saque recusado", msg))

	case domain.WithdrawalStatusProcessing:
		out = append(out, newNotification(domain.AudienceUser, "Saque em processamento",
			fmt.Sprintf("Estamos enviando %s para sua chave PIX.", amount)))

	case domain.WithdrawalStatusCompleted:
		out = append(out, newNotification(domain.AudienceUser, "Saque concluído",
			fmt.Sprintf("%s foi enviado para sua chave PIX.", amount)))

	case domain.WithdrawalStatusFailed:
		// PSP details stay in the admin notes.
		out = append(out, newNotification(domain.AudienceUser, "Saque não concluído",
			fmt.Sprintf("Não foi possível enviar seu saque de %s. Entre em contato com o suporte se precisar de ajuda.", amount)))
		out = append(out, newNotification(domain.AudienceAdmin, "Falha no envio de saque",
			fmt.Sprintf("O saque %s de %s falhou. Veja as notas administrativas.", w.ID, amount)))
	}
	return out
}

func (s *notificationService) List(ctx context.Context, scope ports.NotificationScope, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error) {
	if err := validateScope(scope); err != nil {
		return nil, 0, err
	}
	page, pageSize = NormalizePage(page, pageSize)

	items, total, err := s.repo.List(ctx, scope, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list notifications: %w", err))
	}
	return items, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, scope ports.NotificationScope, id uuid.UUID) error {
	if err := validateScope(scope); err != nil {
		return err
	}

	found, err := s.repo.MarkRead(ctx, scope, id, s.now().UTC())
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("mark notification read: %w", err))
	}
	if !found {
		return apperror.ErrNotFound("Notification")
	}
	return nil
}

func validateScope(scope ports.NotificationScope) error {
	switch scope.Audience {
	case domain.AudienceAdmin:
		return nil
	case domain.AudienceUser:
		if scope.UserID == nil || *scope.UserID == uuid.Nil {
			return apperror.Validation("user id is required")
		}
		return nil
	}
	return apperror.Validation("unknown notification audience")
}
