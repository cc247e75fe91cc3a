package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeValidation             = "VAL_001"
	CodeInvalidStateTransition = "WDR_001"
	CodeConcurrentModification = "WDR_002"
	CodeNotFound               = "WDR_003"
	CodeTransientPsp           = "PSP_001"
	CodeFatalPsp               = "PSP_002"
	CodeUnauthorized           = "SEC_001"
	CodeForbidden              = "SEC_002"
	CodeInvalidToken           = "AUTH_003"
	CodeRateLimit              = "RATE_001"
	CodeInternal               = "SYS_001"
	CodeAuditWrite             = "SYS_010"
	CodeNotificationDispatch   = "SYS_011"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error with a caller-facing message.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// ---- Withdrawal lifecycle (WDR) ----

func ErrInvalidStateTransition(from, to string) *AppError {
	return New(CodeInvalidStateTransition,
		fmt.Sprintf("Cannot move withdrawal from %s to %s", from, to), http.StatusConflict)
}

func ErrConcurrentModification() *AppError {
	return New(CodeConcurrentModification, "Withdrawal was modified by another request", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- PSP (PSP) ----

func ErrTransientPsp(err error) *AppError {
	return Wrap(CodeTransientPsp, "Payment provider temporarily unavailable", http.StatusBadGateway, err)
}

func ErrFatalPsp(message string, err error) *AppError {
	return Wrap(CodeFatalPsp, message, http.StatusUnprocessableEntity, err)
}

// ---- Security & Authentication (SEC / AUTH) ----

func ErrUnauthorized() *AppError {
	return New(CodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Insufficient permissions", http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimit, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// ErrAuditWrite is logged and counted, never returned to a client.
func ErrAuditWrite(err error) *AppError {
	return Wrap(CodeAuditWrite, "Audit log write failed", http.StatusInternalServerError, err)
}

// ErrNotificationDispatch is logged and counted, never returned to a client.
func ErrNotificationDispatch(err error) *AppError {
	return Wrap(CodeNotificationDispatch, "Notification dispatch failed", http.StatusInternalServerError, err)
}
