// Package response writes the JSON envelopes every API route returns.
package response

import (
	"errors"
	"net/http"
	"time"

	"pix-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CodeUnknown is reported for errors that are not an *apperror.AppError.
const CodeUnknown = "SYS_000"

// SuccessResponse is the success envelope.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the error envelope. Message never carries the wrapped cause.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Page is the data of a list response.
type Page struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, RequestID: requestID(c), Timestamp: timestamp()})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, SuccessResponse{Data: data, RequestID: requestID(c), Timestamp: timestamp()})
}

// Paginated echoes the page window the query actually used.
func Paginated(c *gin.Context, items any, total int64, page, pageSize int) {
	OK(c, Page{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// Error maps err onto the error envelope. Server-side failures are attached
// to the gin context so the access log records the cause.
func Error(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, CodeUnknown, "Internal server error"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status, code, message = appErr.HTTPStatus, appErr.Code, appErr.Message
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{ErrorCode: code, Message: message, RequestID: requestID(c), Timestamp: timestamp()})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
