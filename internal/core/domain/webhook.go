package domain

import "time"

// PixEvent is a settled PIX reported by the PSP webhook.
type PixEvent struct {
	EndToEndID string    `json:"end_to_end_id"`
	TxID       string    `json:"txid,omitempty"`
	SendID     string    `json:"send_id,omitempty"` // set when the PIX was one we sent
	PixKey     string    `json:"pix_key,omitempty"`
	Amount     int64     `json:"amount"`
	PayerInfo  string    `json:"payer_info,omitempty"`
	PaidAt     time.Time `json:"paid_at"`
	ReceivedAt time.Time `json:"received_at"`
}

// DedupeKey identifies the event across PSP redeliveries.
func (e PixEvent) DedupeKey() string {
	return BuildPixEventKey(e.EndToEndID)
}

// RecurrenceEvent is a PIX Automático status change reported by the PSP.
type RecurrenceEvent struct {
	RecurrenceID string    `json:"recurrence_id"`
	Status       string    `json:"status"`
	TxID         string    `json:"txid,omitempty"`
	EndToEndID   string    `json:"end_to_end_id,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
	ReceivedAt   time.Time `json:"received_at"`
}

// DedupeKey identifies the event across PSP redeliveries.
func (e RecurrenceEvent) DedupeKey() string {
	return BuildRecurrenceEventKey(e.RecurrenceID, e.Status)
}
