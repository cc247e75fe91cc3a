package psp

import (
	"fmt"

	"pix-gateway/pkg/retry"
)

// Error is a non-2xx answer from the PSP.
type Error struct {
	Op      string
	Status  int
	Name    string // PSP error code, e.g. "valor_invalido"
	Message string
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("psp %s: %d %s: %s", e.Op, e.Status, e.Name, e.Message)
	}
	return fmt.Sprintf("psp %s: %d %s", e.Op, e.Status, e.Message)
}

// StatusCode returns the HTTP status the PSP answered with.
func (e *Error) StatusCode() int { return e.Status }

// Transient reports whether the call may succeed if repeated.
func (e *Error) Transient() bool { return retry.IsTransientStatus(e.Status) }
