package domain

import (
	"strings"

	"github.com/google/uuid"
)

// BuildPspSendID derives the PSP "idEnvio" from a withdrawal id: the uuid's
// 32 hex digits. Re-sending with the same id never moves money twice.
func BuildPspSendID(withdrawalID uuid.UUID) string {
	return strings.ReplaceAll(withdrawalID.String(), "-", "")
}

// BuildPixEventKey is the dedupe key for an inbound payment confirmation.
func BuildPixEventKey(endToEndID string) string {
	return "pix:" + endToEndID
}

// BuildRecurrenceEventKey is the dedupe key for a recurrence status change.
func BuildRecurrenceEventKey(recurrenceID, status string) string {
	return "rec:" + recurrenceID + ":" + status
}
