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

// AdminHandler serves the admin decision and audit endpoints.
type AdminHandler struct {
	withdrawalSvc ports.WithdrawalService
	auditSvc      ports.AuditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(withdrawalSvc ports.WithdrawalService, auditSvc ports.AuditService) *AdminHandler {
	return &AdminHandler{withdrawalSvc: withdrawalSvc, auditSvc: auditSvc}
}

// Decision handles POST /api/v1/admin/withdrawals/:id/decision.
// An approval answers with the withdrawal as it stands after the PSP call.
func (h *AdminHandler) Decision(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal id"))
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	var w *domain.WithdrawalRequest
	switch req.Action {
	case "approve":
		w, err = h.withdrawalSvc.Approve(c.Request.Context(), rc, id, req.AdminNotes)
	case "reject":
		w, err = h.withdrawalSvc.Reject(c.Request.Context(), rc, id, req.RejectionReason, req.AdminNotes)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalResponse(w))
}

// AuditLogs handles GET /api/v1/admin/audit-logs.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.AuditLogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	filter := domain.AuditFilter{
		TenantID:       rc.TenantID,
		ResourceID:     q.ResourceID,
		SuspiciousOnly: q.SuspiciousOnly,
		From:           q.From,
		To:             q.To,
	}
	filter.Page, filter.PageSize = service.NormalizePage(q.Page, q.PageSize)
	if q.ActorID != "" {
		actor := uuid.MustParse(q.ActorID)
		filter.ActorID = &actor
	}
	if q.ActorType != "" {
		actorType := domain.ActorType(q.ActorType)
		filter.ActorType = &actorType
	}
	if q.ResourceType != "" {
		resourceType := domain.ResourceType(q.ResourceType)
		filter.ResourceType = &resourceType
	}
	if q.Action != "" {
		action := domain.AuditAction(q.Action)
		filter.Action = &action
	}

	entries, total, err := h.auditSvc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, entries, total, filter.Page, filter.PageSize)
}

// FraudStats handles GET /api/v1/admin/fraud-stats.
func (h *AdminHandler) FraudStats(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.auditSvc.FraudStatistics(c.Request.Context(), rc.TenantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
