package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the withdrawal event a notification reports.
type NotificationType string

const (
	NotificationWithdrawalRequested  NotificationType = "withdrawal_requested"
	NotificationWithdrawalApproved   NotificationType = "withdrawal_approved"
	NotificationWithdrawalRejected   NotificationType = "withdrawal_rejected"
	NotificationWithdrawalProcessing NotificationType = "withdrawal_processing"
	NotificationWithdrawalCompleted  NotificationType = "withdrawal_completed"
	NotificationWithdrawalFailed     NotificationType = "withdrawal_failed"
)

// NotificationTypeFor maps a withdrawal status to the notification it triggers.
func NotificationTypeFor(s WithdrawalStatus) (NotificationType, bool) {
	switch s {
	case WithdrawalStatusPending:
		return NotificationWithdrawalRequested, true
	case WithdrawalStatusApproved:
		return NotificationWithdrawalApproved, true
	case WithdrawalStatusRejected:
		return NotificationWithdrawalRejected, true
	case WithdrawalStatusProcessing:
		return NotificationWithdrawalProcessing, true
	case WithdrawalStatusCompleted:
		return NotificationWithdrawalCompleted, true
	case WithdrawalStatusFailed:
		return NotificationWithdrawalFailed, true
	}
	return "", false
}

// Audience selects who reads a notification.
type Audience string

const (
	AudienceUser  Audience = "user"
	AudienceAdmin Audience = "admin"
)

// NotificationData is the withdrawal snapshot embedded in a notification.
type NotificationData struct {
	WithdrawalID   uuid.UUID        `json:"withdrawal_id"`
	Amount         int64            `json:"amount"`
	Status         WithdrawalStatus `json:"status"`
	PreviousStatus WithdrawalStatus `json:"previous_status,omitempty"`
	PixKeyType     PixKeyType       `json:"pix_key_type"`
	RiskScore      int              `json:"risk_score,omitempty"`
	Suspicious     bool             `json:"suspicious,omitempty"`
}

// Notification is a message shown to a user or to the tenant's admins.
// Admin notifications have no UserID.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	TenantID  uuid.UUID        `json:"tenant_id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Audience  Audience         `json:"audience"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `json:"data"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
