package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
)

const recentIPWindow = 30 * 24 * time.Hour

// StatusChange is one row of a withdrawal's status history.
type StatusChange struct {
	WithdrawalID uuid.UUID
	From         domain.WithdrawalStatus
	To           domain.WithdrawalStatus
	ChangedAt    time.Time
}

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	mu          sync.RWMutex
	withdrawals map[uuid.UUID]*domain.WithdrawalRequest
	history     []StatusChange
}

func NewWithdrawalRepo() *WithdrawalRepo {
	return &WithdrawalRepo{withdrawals: make(map[uuid.UUID]*domain.WithdrawalRequest)}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.withdrawals[w.ID]; ok {
		return fmt.Errorf("withdrawal %s already exists", w.ID)
	}
	r.withdrawals[w.ID] = w.Clone()
	return nil
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.withdrawals[id]
	if !ok || w.TenantID != tenantID {
		return nil, nil
	}
	return w.Clone(), nil
}

func (r *WithdrawalRepo) GetBySendID(ctx context.Context, sendID string) (*domain.WithdrawalRequest, error) {
	return r.find(func(w *domain.WithdrawalRequest) bool {
		return w.SendID() == sendID || (w.PspTransactionID != "" && w.PspTransactionID == sendID)
	}), nil
}

func (r *WithdrawalRepo) GetByEndToEndID(ctx context.Context, endToEndID string) (*domain.WithdrawalRequest, error) {
	if endToEndID == "" {
		return nil, nil
	}
	return r.find(func(w *domain.WithdrawalRequest) bool { return w.EndToEndID == endToEndID }), nil
}

func (r *WithdrawalRepo) find(match func(*domain.WithdrawalRequest) bool) *domain.WithdrawalRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.withdrawals {
		if match(w) {
			return w.Clone()
		}
	}
	return nil
}

func (r *WithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.WithdrawalRequest
	for _, w := range r.withdrawals {
		if w.TenantID != params.TenantID {
			continue
		}
		if params.UserID != nil && w.UserID != *params.UserID {
			continue
		}
		if params.Status != nil && w.Status != *params.Status {
			continue
		}
		if params.From != nil && w.RequestedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && w.RequestedAt.After(*params.To) {
			continue
		}
		filtered = append(filtered, *w.Clone())
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].RequestedAt.After(filtered[j].RequestedAt)
	})
	return paginate(filtered, params.Page, params.PageSize), int64(len(filtered)), nil
}

func (r *WithdrawalRepo) Transition(ctx context.Context, from domain.WithdrawalStatus, w *domain.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.withdrawals[w.ID]
	if !ok || stored.TenantID != w.TenantID || stored.Status != from {
		return ports.ErrStatusConflict
	}
	r.withdrawals[w.ID] = w.Clone()
	r.history = append(r.history, StatusChange{
		WithdrawalID: w.ID,
		From:         from,
		To:           w.Status,
		ChangedAt:    w.UpdatedAt,
	})
	return nil
}

func (r *WithdrawalRepo) GetPattern(ctx context.Context, tenantID, userID uuid.UUID, at time.Time) (*domain.WithdrawalPattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := &domain.WithdrawalPattern{}
	keys := make(map[string]struct{})
	ips := make(map[string]struct{})
	var lifetime int64
	for _, w := range r.withdrawals {
		if w.TenantID != tenantID || w.UserID != userID || w.RequestedAt.After(at) {
			continue
		}
		age := at.Sub(w.RequestedAt)
		if age < 24*time.Hour {
			p.Count24h++
			p.Total24h += w.Amount
		}
		if age < 7*24*time.Hour {
			p.Count7d++
			p.Total7d += w.Amount
		}
		p.TotalCount++
		lifetime += w.Amount
		if _, seen := keys[w.PixKey]; !seen {
			keys[w.PixKey] = struct{}{}
			p.KnownPixKeys = append(p.KnownPixKeys, w.PixKey)
		}
		if w.OriginIP != "" && age < recentIPWindow {
			if _, seen := ips[w.OriginIP]; !seen {
				ips[w.OriginIP] = struct{}{}
				p.RecentIPs = append(p.RecentIPs, w.OriginIP)
			}
		}
		if p.LastRequestAt == nil || w.RequestedAt.After(*p.LastRequestAt) {
			t := w.RequestedAt
			p.LastRequestAt = &t
		}
	}
	if p.TotalCount > 0 {
		p.AverageAmount = lifetime / int64(p.TotalCount)
	}
	p.DistinctPixKeys = len(keys)
	sort.Strings(p.KnownPixKeys)
	sort.Strings(p.RecentIPs)
	return p, nil
}

func (r *WithdrawalRepo) ListStale(ctx context.Context, status domain.WithdrawalStatus, cutoff time.Time, limit int) ([]domain.WithdrawalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []domain.WithdrawalRequest
	for _, w := range r.withdrawals {
		if w.Status == status && w.UpdatedAt.Before(cutoff) {
			stale = append(stale, *w.Clone())
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].UpdatedAt.Before(stale[j].UpdatedAt) })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// History returns the recorded status changes for a withdrawal, in order.
func (r *WithdrawalRepo) History(id uuid.UUID) []StatusChange {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []StatusChange
	for _, h := range r.history {
		if h.WithdrawalID == id {
			out = append(out, h)
		}
	}
	return out
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
