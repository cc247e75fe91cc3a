package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pix-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set("request_id", requestID)
	}
	return c, w
}

func TestSuccessEnvelopes(t *testing.T) {
	c, w := newContext("req-1")
	OK(c, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data      map[string]string `json:"data"`
		RequestID string            `json:"request_id"`
		Timestamp string            `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Data["status"])
	assert.Equal(t, "req-1", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)

	c, w = newContext("req-2")
	Created(c, map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-2"`)
}

func TestPaginated(t *testing.T) {
	c, w := newContext("")
	Paginated(c, []string{"a", "b"}, 12, 2, 2)

	var resp struct {
		Data      Page   `json:"data"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Page)
	assert.Equal(t, 2, resp.Data.PageSize)
	assert.Len(t, resp.Data.Items, 2)
	assert.NotEmpty(t, resp.RequestID, "generated when the middleware did not set one")
}

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
		recorded   bool
	}{
		{"conflict", apperror.ErrConcurrentModification(), http.StatusConflict, "WDR_002", "Withdrawal was modified by another request", false},
		{"wrapped", fmt.Errorf("outer: %w", apperror.ErrUnauthorized()), http.StatusUnauthorized, "SEC_001", "", false},
		{"database", apperror.ErrDatabaseError(cause), http.StatusInternalServerError, "SYS_001", "Internal database error", true},
		{"unknown", cause, http.StatusInternalServerError, CodeUnknown, "Internal server error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-err")
			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
			assert.Equal(t, "req-err", resp.RequestID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			assert.NotContains(t, resp.Message, "connection reset")

			if tt.recorded {
				require.Len(t, c.Errors, 1)
				assert.ErrorIs(t, c.Errors.Last().Err, cause)
			} else {
				assert.Empty(t, c.Errors)
			}
		})
	}
}

func TestAbort_StopsChain(t *testing.T) {
	c, w := newContext("")
	Abort(c, apperror.ErrForbidden())

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
