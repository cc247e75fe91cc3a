package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pix-gateway/pkg/pixkey"
)

// WithdrawalStatus represents the lifecycle state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusApproved   WithdrawalStatus = "approved"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// withdrawalTransitions lists the only moves the state machine may make.
var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusPending:    {WithdrawalStatusApproved, WithdrawalStatusRejected},
	WithdrawalStatusApproved:   {WithdrawalStatusProcessing},
	WithdrawalStatusProcessing: {WithdrawalStatusCompleted, WithdrawalStatusFailed},
}

// IsValid reports whether s is a known status.
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusProcessing,
		WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true for completed, rejected and failed.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusCompleted ||
		s == WithdrawalStatusRejected ||
		s == WithdrawalStatusFailed
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	for _, allowed := range withdrawalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PixKeyType is the kind of DICT key a withdrawal is paid to.
type PixKeyType string

const (
	PixKeyTypeCPFCNPJ PixKeyType = pixkey.TypeCPFCNPJ
	PixKeyTypeEmail   PixKeyType = pixkey.TypeEmail
	PixKeyTypePhone   PixKeyType = pixkey.TypePhone
	PixKeyTypeRandom  PixKeyType = pixkey.TypeRandom
)

// WithdrawalRequest is a user's request to move funds out over PIX.
type WithdrawalRequest struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	UserID           uuid.UUID        `json:"user_id"`
	Amount           int64            `json:"amount"` // centavos
	PixKey           string           `json:"pix_key"`
	PixKeyType       PixKeyType       `json:"pix_key_type"`
	RecipientName    string           `json:"recipient_name"`
	Status           WithdrawalStatus `json:"status"`
	AdminNotes       string           `json:"admin_notes,omitempty"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	AdminID          *uuid.UUID       `json:"admin_id,omitempty"`
	RiskScore        int              `json:"risk_score"`
	RiskIndicators   []string         `json:"risk_indicators"`
	PspTransactionID string           `json:"psp_transaction_id,omitempty"`
	EndToEndID       string           `json:"end_to_end_id,omitempty"`
	OriginIP         string           `json:"origin_ip,omitempty"`
	RequestedAt      time.Time        `json:"requested_at"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`
	ProcessedAt      *time.Time       `json:"processed_at,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SendID is the idempotency key the PSP receives for this withdrawal.
func (w *WithdrawalRequest) SendID() string {
	return BuildPspSendID(w.ID)
}

// Suspicious reports whether the creation-time score crossed the threshold.
func (w *WithdrawalRequest) Suspicious() bool {
	return w.RiskScore >= SuspiciousThreshold
}

// AppendNote adds a line to the admin notes.
func (w *WithdrawalRequest) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if w.AdminNotes == "" {
		w.AdminNotes = note
		return
	}
	w.AdminNotes += "\n" + note
}

// Clone returns a deep copy, used for before/after audit snapshots.
func (w *WithdrawalRequest) Clone() *WithdrawalRequest {
	c := *w
	if w.RiskIndicators != nil {
		c.RiskIndicators = append([]string(nil), w.RiskIndicators...)
	}
	c.AdminID = cloneUUID(w.AdminID)
	c.ApprovedAt = cloneTime(w.ApprovedAt)
	c.ProcessedAt = cloneTime(w.ProcessedAt)
	c.CompletedAt = cloneTime(w.CompletedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
