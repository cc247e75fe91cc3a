package handler

import (
	"pix-gateway/internal/adapter/http/middleware"
	redisStore "pix-gateway/internal/adapter/storage/redis"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up the API routes.
type RouterDeps struct {
	WithdrawalSvc   ports.WithdrawalService
	AuditSvc        ports.AuditService
	NotificationSvc ports.NotificationService
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine of the user and admin API.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)
	adminHandler := NewAdminHandler(deps.WithdrawalSvc, deps.AuditSvc)
	notificationHandler := NewNotificationHandler(deps.NotificationSvc)

	v1 := r.Group("/api/v1", jwtAuth)

	withdrawals := v1.Group("/withdrawals", middleware.RequireRole(domain.ActorTypeUser))
	{
		withdrawals.POST("", rl("withdrawals_create"), withdrawalHandler.Create)
		withdrawals.GET("", rl("withdrawals_read"), withdrawalHandler.List)
		withdrawals.GET("/:id", rl("withdrawals_read"), withdrawalHandler.Get)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("", rl("notifications"), notificationHandler.List)
		notifications.POST("/:id/read", rl("notifications"), notificationHandler.MarkRead)
	}

	admin := v1.Group("/admin", middleware.RequireRole(domain.ActorTypeAdmin))
	{
		admin.GET("/withdrawals", rl("admin_read"), withdrawalHandler.List)
		admin.GET("/withdrawals/:id", rl("admin_read"), withdrawalHandler.Get)
		admin.POST("/withdrawals/:id/decision", rl("admin_decision"), adminHandler.Decision)
		admin.GET("/audit-logs", rl("admin_read"), adminHandler.AuditLogs)
		admin.GET("/fraud-stats", rl("admin_read"), adminHandler.FraudStats)
	}

	return r
}
