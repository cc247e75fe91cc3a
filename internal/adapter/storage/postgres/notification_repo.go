package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
)

const notificationColumns = `id, tenant_id, user_id, audience, type, title, message, data, read, read_at, created_at`

// NotificationRepo implements ports.NotificationRepository.
type NotificationRepo struct {
	pool Pool
}

func NewNotificationRepo(pool Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("encode notification data: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.TenantID, n.UserID, string(n.Audience), string(n.Type), n.Title, n.Message,
		data, n.Read, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// scopeCondition limits a query to the scope's audience; args start at $1.
func scopeCondition(scope ports.NotificationScope) (string, []any) {
	if scope.Audience == domain.AudienceUser {
		return "tenant_id = $1 AND audience = $2 AND user_id = $3",
			[]any{scope.TenantID, string(scope.Audience), scope.UserID}
	}
	return "tenant_id = $1 AND audience = $2", []any{scope.TenantID, string(scope.Audience)}
}

func (r *NotificationRepo) List(ctx context.Context, scope ports.NotificationScope, unreadOnly bool, page, pageSize int) ([]domain.Notification, int64, error) {
	if scope.Audience == domain.AudienceUser && scope.UserID == nil {
		return []domain.Notification{}, 0, nil
	}
	where, args := scopeCondition(scope)
	if unreadOnly {
		where += " AND NOT read"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, notificationColumns, where, n+1, n+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var item domain.Notification
		var audience, typ string
		var data []byte
		err := rows.Scan(&item.ID, &item.TenantID, &item.UserID, &audience, &typ,
			&item.Title, &item.Message, &data, &item.Read, &item.ReadAt, &item.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification row: %w", err)
		}
		item.Audience = domain.Audience(audience)
		item.Type = domain.NotificationType(typ)
		if err := json.Unmarshal(data, &item.Data); err != nil {
			return nil, 0, fmt.Errorf("decode notification data: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notification rows: %w", err)
	}
	return out, total, nil
}

// MarkRead keeps the first read_at when the notification was already read.
func (r *NotificationRepo) MarkRead(ctx context.Context, scope ports.NotificationScope, id uuid.UUID, at time.Time) (bool, error) {
	if scope.Audience == domain.AudienceUser && scope.UserID == nil {
		return false, nil
	}
	where, args := scopeCondition(scope)
	n := len(args)
	query := fmt.Sprintf(`UPDATE notifications SET read = TRUE, read_at = COALESCE(read_at, $%d)
		WHERE id = $%d AND %s`, n+1, n+2, where)
	args = append(args, at, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
