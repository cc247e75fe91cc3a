package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
)

// NotificationRepo implements ports.NotificationRepository.
type NotificationRepo struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, scope ports.NotificationScope, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.Notification
	for _, n := range r.notifications {
		if !inScope(n, scope) || (unreadOnly && n.Read) {
			continue
		}
		filtered = append(filtered, *n)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return paginate(filtered, page, pageSize), int64(len(filtered)), nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, scope ports.NotificationScope, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID != id || !inScope(n, scope) {
			continue
		}
		if !n.Read {
			n.Read = true
			readAt := at
			n.ReadAt = &readAt
		}
		return true, nil
	}
	return false, nil
}

// All returns a copy of every stored notification, oldest first.
func (r *NotificationRepo) All() []domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, *n)
	}
	return out
}

func inScope(n *domain.Notification, scope ports.NotificationScope) bool {
	if n.TenantID != scope.TenantID || n.Audience != scope.Audience {
		return false
	}
	if scope.Audience == domain.AudienceUser {
		return scope.UserID != nil && n.UserID != nil && *n.UserID == *scope.UserID
	}
	return true
}
