package middleware

import (
	"net/http"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/logger"
	"pix-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	// Context keys
	CtxRequestID      = "request_id"
	CtxRequestContext = "request_context"
)

// RequestID tags the request with the caller's X-Request-ID or a fresh uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// JWTAuth validates the bearer token and stores the caller's
// domain.RequestContext for the handlers.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}

		claims, err := tokenSvc.Validate(authHeader[7:])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}

		requestID := c.GetString(CtxRequestID)
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = requestID
		}
		c.Set(CtxRequestContext, domain.RequestContext{
			RequestID: requestID,
			TraceID:   traceID,
			TenantID:  claims.TenantID,
			ActorID:   claims.UserID,
			ActorType: claims.Role,
			IPAddress: c.ClientIP(),
			ClientID:  c.Request.UserAgent(),
		})
		c.Next()
	}
}

// RequireRole lets only callers with role through.
func RequireRole(role domain.ActorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := RequestContextFrom(c)
		if !ok {
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}
		if rc.ActorType != role {
			response.Abort(c, apperror.ErrForbidden())
			return
		}
		c.Next()
	}
}

// RequestContextFrom returns the context JWTAuth stored.
func RequestContextFrom(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(CtxRequestContext)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		l := log
		if rc, ok := RequestContextFrom(c); ok {
			l = logger.WithRequest(log, rc)
		} else if id := c.GetString(CtxRequestID); id != "" {
			l = log.With().Str("request_id", id).Logger()
		}

		event := l.Info()
		if status >= http.StatusInternalServerError {
			event = l.Error()
		} else if status >= http.StatusBadRequest {
			event = l.Warn()
		}

		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.Last().Error())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Abort(c, apperror.New(apperror.CodeInternal, "Internal server error", http.StatusInternalServerError))
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits the request body; reads past maxBytes fail and the
// handler answers 413 or 400.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
