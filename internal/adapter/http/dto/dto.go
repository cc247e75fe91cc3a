package dto

import (
	"time"

	"pix-gateway/internal/core/domain"
)

// CreateWithdrawalRequest is the request body for POST /api/v1/withdrawals.
type CreateWithdrawalRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"` // centavos
	PixKey        string `json:"pix_key" binding:"required,max=140"`
	PixKeyType    string `json:"pix_key_type" binding:"required,pix_key_type"`
	RecipientName string `json:"recipient_name" binding:"required,min=2,max=140"`
}

// DecisionRequest is the request body for the admin decision endpoint.
type DecisionRequest struct {
	Action          string `json:"action" binding:"required,oneof=approve reject"`
	AdminNotes      string `json:"admin_notes" binding:"max=1000"`
	RejectionReason string `json:"rejection_reason" binding:"max=500"`
}

// ListWithdrawalsQuery holds the query parameters of withdrawal listings.
type ListWithdrawalsQuery struct {
	Status   string     `form:"status" binding:"omitempty,withdrawal_status"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuditLogQuery holds the query parameters of GET /api/v1/admin/audit-logs.
type AuditLogQuery struct {
	ActorID        string     `form:"actor_id" binding:"omitempty,uuid"`
	ActorType      string     `form:"actor_type" binding:"omitempty,oneof=user admin system"`
	ResourceType   string     `form:"resource_type" binding:"omitempty,oneof=withdrawal_request charge recurrence"`
	ResourceID     string     `form:"resource_id" binding:"omitempty,max=100,safe_id"`
	Action         string     `form:"action" binding:"omitempty,safe_id"`
	SuspiciousOnly bool       `form:"suspicious_only"`
	From           *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To             *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationQuery holds the query parameters of GET /api/v1/notifications.
type NotificationQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WithdrawalResponse is the public view of a withdrawal.
type WithdrawalResponse struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	Amount           int64    `json:"amount"`
	AmountFormatted  string   `json:"amount_formatted"`
	PixKey           string   `json:"pix_key"`
	PixKeyType       string   `json:"pix_key_type"`
	RecipientName    string   `json:"recipient_name"`
	Status           string   `json:"status"`
	AdminNotes       string   `json:"admin_notes,omitempty"`
	RejectionReason  string   `json:"rejection_reason,omitempty"`
	RiskScore        int      `json:"risk_score"`
	RiskIndicators   []string `json:"risk_indicators"`
	Suspicious       bool     `json:"suspicious"`
	PspTransactionID string   `json:"psp_transaction_id,omitempty"`
	EndToEndID       string   `json:"end_to_end_id,omitempty"`
	RequestedAt      string   `json:"requested_at"`
	ApprovedAt       *string  `json:"approved_at,omitempty"`
	ProcessedAt      *string  `json:"processed_at,omitempty"`
	CompletedAt      *string  `json:"completed_at,omitempty"`
}

// PixCallback is one item of the PSP's PIX webhook body.
type PixCallback struct {
	EndToEndID  string           `json:"endToEndId"`
	TxID        string           `json:"txid"`
	IDEnvio     string           `json:"idEnvio"`
	Valor       string           `json:"valor"`
	Chave       string           `json:"chave"`
	Horario     time.Time        `json:"horario"`
	InfoPagador string           `json:"infoPagador"`
	GnExtras    *PixCallbackInfo `json:"gnExtras,omitempty"`
}

// PixCallbackInfo carries PSP-specific extras; outbound PIX report idEnvio here.
type PixCallbackInfo struct {
	IDEnvio string `json:"idEnvio"`
}

// SendID returns the outbound send id, if any.
func (p PixCallback) SendID() string {
	if p.IDEnvio != "" {
		return p.IDEnvio
	}
	if p.GnExtras != nil {
		return p.GnExtras.IDEnvio
	}
	return ""
}

// RecurrenceCallback is one item of the PSP's recurrence webhook body.
type RecurrenceCallback struct {
	IDRec      string    `json:"idRec"`
	Status     string    `json:"status"`
	TxID       string    `json:"txid"`
	EndToEndID string    `json:"endToEndId"`
	Valor      string    `json:"valor"`
	Horario    time.Time `json:"horario"`
}

// WebhookAck is the body returned to the PSP once a callback is accepted.
type WebhookAck struct {
	Received int `json:"received"`
}

const timeLayout = time.RFC3339

// ToWithdrawalResponse converts a domain withdrawal to its public view.
func ToWithdrawalResponse(w *domain.WithdrawalRequest, formatted string) WithdrawalResponse {
	indicators := w.RiskIndicators
	if indicators == nil {
		indicators = []string{}
	}
	return WithdrawalResponse{
		ID:               w.ID.String(),
		UserID:           w.UserID.String(),
		Amount:           w.Amount,
		AmountFormatted:  formatted,
		PixKey:           w.PixKey,
		PixKeyType:       string(w.PixKeyType),
		RecipientName:    w.RecipientName,
		Status:           string(w.Status),
		AdminNotes:       w.AdminNotes,
		RejectionReason:  w.RejectionReason,
		RiskScore:        w.RiskScore,
		RiskIndicators:   indicators,
		Suspicious:       w.Suspicious(),
		PspTransactionID: w.PspTransactionID,
		EndToEndID:       w.EndToEndID,
		RequestedAt:      w.RequestedAt.UTC().Format(timeLayout),
		ApprovedAt:       formatTime(w.ApprovedAt),
		ProcessedAt:      formatTime(w.ProcessedAt),
		CompletedAt:      formatTime(w.CompletedAt),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}
