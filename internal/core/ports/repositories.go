package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"pix-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// ErrStatusConflict is returned by WithdrawalRepository.Transition when the
// stored status no longer matches the expected one.
var ErrStatusConflict = errors.New("withdrawal status changed concurrently")

// WithdrawalRepository defines persistence operations for withdrawal requests.
// Lookups return (nil, nil) when nothing matches.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.WithdrawalRequest, error)
	// GetBySendID and GetByEndToEndID are cross-tenant: PSP callbacks carry no tenant.
	GetBySendID(ctx context.Context, sendID string) (*domain.WithdrawalRequest, error)
	GetByEndToEndID(ctx context.Context, endToEndID string) (*domain.WithdrawalRequest, error)
	List(ctx context.Context, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
	// Transition persists w (status and the fields that move with it) only if
	// the stored status still equals from, and records the move in the
	// status history within the same database transaction.
	Transition(ctx context.Context, from domain.WithdrawalStatus, w *domain.WithdrawalRequest) error
	// GetPattern summarises the user's withdrawals as seen at time at.
	GetPattern(ctx context.Context, tenantID, userID uuid.UUID, at time.Time) (*domain.WithdrawalPattern, error)
	// ListStale returns withdrawals in status whose updated_at is before cutoff, oldest first.
	ListStale(ctx context.Context, status domain.WithdrawalStatus, cutoff time.Time, limit int) ([]domain.WithdrawalRequest, error)
}

// WithdrawalListParams holds filter + pagination for listing withdrawals.
type WithdrawalListParams struct {
	TenantID uuid.UUID
	UserID   *uuid.UUID
	Status   *domain.WithdrawalStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// AuditRepository is the append-only audit log store.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int64, error)
	// FraudStatistics aggregates scored entries; since bounds the recent-suspicious count.
	FraudStatistics(ctx context.Context, tenantID uuid.UUID, since time.Time) (*domain.FraudStatistics, error)
}

// NotificationScope identifies whose notifications are read or updated.
// UserID is required for the user audience and ignored for admins.
type NotificationScope struct {
	TenantID uuid.UUID
	Audience domain.Audience
	UserID   *uuid.UUID
}

// NotificationRepository persists notifications for the in-app inbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, scope NotificationScope, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error)
	// MarkRead returns false when no notification in scope has that id.
	MarkRead(ctx context.Context, scope NotificationScope, id uuid.UUID, at time.Time) (bool, error)
}
