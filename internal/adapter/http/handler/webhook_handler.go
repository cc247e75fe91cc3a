package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pix-gateway/internal/adapter/http/dto"
	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/money"
	"pix-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultPublishTimeout = 10 * time.Second

// WebhookHandler receives PSP callbacks. Events are acknowledged as soon as
// they parse and are handed to the reconciliation queue in the background.
type WebhookHandler struct {
	publisher      ports.ReconciliationPublisher
	log            zerolog.Logger
	publishTimeout time.Duration
	now            func() time.Time
	wg             sync.WaitGroup
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(publisher ports.ReconciliationPublisher, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		publisher:      publisher,
		log:            log,
		publishTimeout: defaultPublishTimeout,
		now:            time.Now,
	}
}

// Wait blocks until every background publish has finished.
func (h *WebhookHandler) Wait() {
	h.wg.Wait()
}

// ConfigCheck handles POST /webhook, the PSP's registration probe. Only a
// mutually authenticated connection gets a 200.
func (h *WebhookHandler) ConfigCheck(c *gin.Context) {
	if middleware.WebhookAuthKind(c) != middleware.AuthMutualTLS {
		response.Error(c, apperror.ErrUnauthorized())
		return
	}
	c.Status(http.StatusOK)
}

// Pix handles POST /webhook/pix.
func (h *WebhookHandler) Pix(c *gin.Context) {
	items, err := readEnvelope[dto.PixCallback](c, "pix")
	if err != nil {
		response.Error(c, err)
		return
	}

	received := h.now().UTC()
	events := make([]domain.PixEvent, 0, len(items))
	for i, item := range items {
		if item.EndToEndID == "" {
			response.Error(c, apperror.Validation(fmt.Sprintf("pix[%d]: endToEndId is required", i)))
			return
		}
		amount, err := money.FromValor(item.Valor)
		if err != nil {
			response.Error(c, apperror.Validation(fmt.Sprintf("pix[%d]: invalid valor", i)))
			return
		}
		paidAt := item.Horario
		if paidAt.IsZero() {
			paidAt = received
		}
		events = append(events, domain.PixEvent{
			EndToEndID: item.EndToEndID,
			TxID:       item.TxID,
			SendID:     item.SendID(),
			PixKey:     item.Chave,
			Amount:     amount,
			PayerInfo:  item.InfoPagador,
			PaidAt:     paidAt.UTC(),
			ReceivedAt: received,
		})
	}

	h.dispatch(c, len(events), func(ctx context.Context) {
		for _, evt := range events {
			if err := h.publisher.PublishPix(ctx, evt); err != nil {
				h.log.Error().Err(err).Str("end_to_end_id", evt.EndToEndID).Msg("failed to enqueue pix event")
			}
		}
	})
}

// Recurrence handles POST /webhook/recurrence.
func (h *WebhookHandler) Recurrence(c *gin.Context) {
	items, err := readEnvelope[dto.RecurrenceCallback](c, "recs")
	if err != nil {
		response.Error(c, err)
		return
	}

	received := h.now().UTC()
	events := make([]domain.RecurrenceEvent, 0, len(items))
	for i, item := range items {
		if item.IDRec == "" || item.Status == "" {
			response.Error(c, apperror.Validation(fmt.Sprintf("recs[%d]: idRec and status are required", i)))
			return
		}
		var amount int64
		if item.Valor != "" {
			amount, err = money.FromValor(item.Valor)
			if err != nil {
				response.Error(c, apperror.Validation(fmt.Sprintf("recs[%d]: invalid valor", i)))
				return
			}
		}
		occurred := item.Horario
		if occurred.IsZero() {
			occurred = received
		}
		events = append(events, domain.RecurrenceEvent{
			RecurrenceID: item.IDRec,
			Status:       item.Status,
			TxID:         item.TxID,
			EndToEndID:   item.EndToEndID,
			Amount:       amount,
			OccurredAt:   occurred.UTC(),
			ReceivedAt:   received,
		})
	}

	h.dispatch(c, len(events), func(ctx context.Context) {
		for _, evt := range events {
			if err := h.publisher.PublishRecurrence(ctx, evt); err != nil {
				h.log.Error().Err(err).Str("recurrence_id", evt.RecurrenceID).Msg("failed to enqueue recurrence event")
			}
		}
	})
}

// dispatch acknowledges n events and runs publish detached from the
// request, bounded by publishTimeout.
func (h *WebhookHandler) dispatch(c *gin.Context, n int, publish func(ctx context.Context)) {
	if n > 0 {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.publishTimeout)
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			defer cancel()
			publish(ctx)
		}()
	}
	c.JSON(http.StatusOK, dto.WebhookAck{Received: n})
}

// readEnvelope accepts either a bare JSON array or an object carrying the
// array under key. An object without key yields no items.
func readEnvelope[T any](c *gin.Context, key string) ([]T, error) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.New(apperror.CodeValidation, "Request body too large", http.StatusRequestEntityTooLarge)
		}
		return nil, apperror.Validation("unreadable request body")
	}

	body = bytes.TrimSpace(body)
	var items []T
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, apperror.Validation("malformed webhook payload")
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperror.Validation("malformed webhook payload")
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperror.Validation("malformed webhook payload")
	}
	return items, nil
}
