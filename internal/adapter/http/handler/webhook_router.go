package handler

import (
	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WebhookRouterDeps holds the dependencies of the PSP-facing gateway.
type WebhookRouterDeps struct {
	Handler        *WebhookHandler
	Auth           middleware.WebhookAuthConfig
	Signer         ports.SignatureService
	Counters       *telemetry.Counters // nil = global meter
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupWebhookRouter initialises the Gin engine served on the TLS listener.
func SetupWebhookRouter(deps WebhookRouterDeps) *gin.Engine {
	counters := deps.Counters
	if counters == nil {
		counters = telemetry.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	auth := middleware.WebhookAuth(deps.Auth, deps.Signer, counters, deps.Logger)
	webhook := r.Group("/webhook", auth)
	{
		webhook.POST("", deps.Handler.ConfigCheck)
		webhook.POST("/pix", deps.Handler.Pix)
		webhook.POST("/recurrence", deps.Handler.Recurrence)
	}

	return r
}
