package handler

import (
	"pix-gateway/internal/adapter/http/dto"
	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/service"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/money"
	"pix-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WithdrawalHandler serves the user withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Create handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	w, err := h.withdrawalSvc.Create(c.Request.Context(), rc, ports.CreateWithdrawalRequest{
		Amount:        req.Amount,
		PixKey:        req.PixKey,
		PixKeyType:    domain.PixKeyType(req.PixKeyType),
		RecipientName: req.RecipientName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWithdrawalResponse(w))
}

// List handles GET /api/v1/withdrawals and GET /api/v1/admin/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	rc, ok := middleware.RequestContextFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.ListWithdrawalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		response.Error(c, apperror.Validation("to must not be before from"))
		return
	}

	params := ports.WithdrawalListParams{From: q.From, To: q.To}
	params.Page, params.PageSize = service.NormalizePage(q.Page, q.PageSize)
	if q.Status != "" {
		status := domain.WithdrawalStatus(q.Status)
		params.Status = &status
	}

	items, total, err := h.withdrawalSvc.List(c.Request.Context(), rc, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WithdrawalResponse, 0, len(items))
	for i := range items {
		out = append(out, toWithdrawalResponse(&items[i]))
	}
	response.Paginated(c, out, total, params.Page, params.PageSize)
}

// Get handles GET /api/v1/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
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

	w, err := h.withdrawalSvc.Get(c.Request.Context(), rc, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWithdrawalResponse(w))
}

func toWithdrawalResponse(w *domain.WithdrawalRequest) dto.WithdrawalResponse {
	return dto.ToWithdrawalResponse(w, money.FormatBRL(w.Amount))
}
