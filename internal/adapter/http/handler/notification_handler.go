package handler

import (
	"pix-gateway/internal/adapter/http/dto"
	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/service"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler serves the in-app inbox.
type NotificationHandler struct {
	notificationSvc ports.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationSvc ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.NotificationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	page, pageSize := service.NormalizePage(q.Page, q.PageSize)

	items, total, err := h.notificationSvc.List(c.Request.Context(), scopeFor(rc), q.UnreadOnly, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page, pageSize)
}

// MarkRead handles POST /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid notification id"))
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), scopeFor(rc), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id.String(), "read": true})
}

// scopeFor maps admins to the tenant's admin inbox and users to their own.
func scopeFor(rc domain.RequestContext) ports.NotificationScope {
	if rc.IsAdmin() {
		return ports.NotificationScope{TenantID: rc.TenantID, Audience: domain.AudienceAdmin}
	}
	user := rc.ActorID
	return ports.NotificationScope{TenantID: rc.TenantID, Audience: domain.AudienceUser, UserID: &user}
}
