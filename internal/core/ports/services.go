package ports

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"pix-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(claims TokenClaims) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     domain.ActorType // user or admin
}

// TokenCache shares PSP access tokens between replicas.
type TokenCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventDeduper remembers webhook events already reconciled.
type EventDeduper interface {
	// MarkSeen records key and returns true if it was not seen before.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget removes key so a failed reconciliation can be retried.
	Forget(ctx context.Context, key string) error
}

// ErrLockHeld is returned by Locker.Obtain when another process holds the lock.
var ErrLockHeld = errors.New("lock held by another process")

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out distributed locks.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// --- Service Ports (Business Logic) ---

// FraudScorer scores a withdrawal against the user's history. It never fails.
type FraudScorer interface {
	Assess(ctx context.Context, tenantID, userID uuid.UUID, in domain.ScoringInput) domain.RiskAssessment
}

// AuditInput describes one audited action.
type AuditInput struct {
	TenantID     uuid.UUID
	ActorID      uuid.UUID
	ActorType    domain.ActorType
	Action       domain.AuditAction
	ResourceType domain.ResourceType
	ResourceID   string
	Before       any
	After        any
	Metadata     map[string]any
	IPAddress    string
	ClientID     string
	// Risk carries an assessment computed by the caller. When nil on a
	// withdrawal create, the audit writer scores the withdrawal itself.
	Risk *domain.RiskAssessment
}

// AuditService writes and reads the audit log.
type AuditService interface {
	// Log appends one entry. Storage failures are logged and swallowed.
	Log(ctx context.Context, in AuditInput) *domain.AuditLogEntry
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int64, error)
	FraudStatistics(ctx context.Context, tenantID uuid.UUID) (*domain.FraudStatistics, error)
}

// NotificationService tells users and admins about withdrawal transitions.
type NotificationService interface {
	// Dispatch never fails the caller; previous is empty on creation.
	Dispatch(ctx context.Context, w *domain.WithdrawalRequest, previous domain.WithdrawalStatus)
	List(ctx context.Context, scope NotificationScope, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, scope NotificationScope, id uuid.UUID) error
}

// PixSendRequest is one outbound PIX.
type PixSendRequest struct {
	SendID        string
	Amount        int64
	PayerPixKey   string
	PixKey        string
	RecipientName string
	Description   string
}

// PSP statuses of an outbound PIX.
const (
	PixStatusInProgress = "EM_PROCESSAMENTO"
	PixStatusSettled    = "REALIZADO"
	PixStatusRejected   = "NAO_REALIZADO"
)

// PixSendResult is the PSP's view of an outbound PIX.
type PixSendResult struct {
	SendID      string
	EndToEndID  string
	Status      string
	Amount      int64
	RequestedAt time.Time
}

// Rejected reports whether the PSP gave up on the transfer.
func (r PixSendResult) Rejected() bool {
	return r.Status == PixStatusRejected
}

// DisbursementClient moves money through the PSP.
type DisbursementClient interface {
	SendPix(ctx context.Context, req PixSendRequest) (*PixSendResult, error)
	// FindSent returns (nil, nil) when the PSP has no PIX with that send id.
	FindSent(ctx context.Context, sendID string) (*PixSendResult, error)
}

// CreateWithdrawalRequest holds user input for a new withdrawal.
type CreateWithdrawalRequest struct {
	Amount        int64
	PixKey        string
	PixKeyType    domain.PixKeyType
	RecipientName string
}

// WithdrawalService is the withdrawal state machine.
type WithdrawalService interface {
	Create(ctx context.Context, rc domain.RequestContext, req CreateWithdrawalRequest) (*domain.WithdrawalRequest, error)
	// Approve moves pending -> approved and then disburses; the returned
	// record is in its final state for this call (completed or failed).
	Approve(ctx context.Context, rc domain.RequestContext, id uuid.UUID, notes string) (*domain.WithdrawalRequest, error)
	Reject(ctx context.Context, rc domain.RequestContext, id uuid.UUID, reason, notes string) (*domain.WithdrawalRequest, error)
	Get(ctx context.Context, rc domain.RequestContext, id uuid.UUID) (*domain.WithdrawalRequest, error)
	List(ctx context.Context, rc domain.RequestContext, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
	// Settle completes a processing withdrawal the PSP reports as sent.
	Settle(ctx context.Context, rc domain.RequestContext, w *domain.WithdrawalRequest, result PixSendResult) (*domain.WithdrawalRequest, error)
	// Abandon fails a processing withdrawal the PSP never received.
	Abandon(ctx context.Context, rc domain.RequestContext, w *domain.WithdrawalRequest, reason string) (*domain.WithdrawalRequest, error)
}

// ReconciliationPublisher hands authenticated webhook events to the worker.
type ReconciliationPublisher interface {
	PublishPix(ctx context.Context, evt domain.PixEvent) error
	PublishRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error
}

// ReconciliationService applies webhook events to local state.
type ReconciliationService interface {
	ReconcilePix(ctx context.Context, evt domain.PixEvent) error
	ReconcileRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error
}

// ChargeSettler settles inbound charges; implemented outside this gateway.
type ChargeSettler interface {
	SettleCharge(ctx context.Context, evt domain.PixEvent) error
	SettleRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error
}

// HealthChecker is a dependency probed by GET /health. Ping returns nil when
// the dependency can serve writes.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
