package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pix-gateway/internal/core/domain"

	"github.com/google/uuid"
)

const auditColumns = `id, tenant_id, actor_id, actor_type, action, resource_type, resource_id,
		before, after, ip_address, client_id, risk_score, risk_indicators, metadata, created_at`

const topIndicatorLimit = 5

// AuditRepo implements ports.AuditRepository. The table rejects updates and deletes.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit log.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditLogEntry) error {
	metadata, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		e.ID, e.TenantID, e.ActorID, string(e.ActorType), string(e.Action), string(e.ResourceType),
		e.ResourceID, nullJSON(e.Before), nullJSON(e.After), e.IPAddress, e.ClientID,
		e.RiskScore, indicators(e.RiskIndicators), metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns a page of matching entries, newest first, and the total count.
func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLogEntry, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1
	add := func(cond string, v any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, v)
		argIdx++
	}

	add("tenant_id = $%d", f.TenantID)
	if f.ActorID != nil {
		add("actor_id = $%d", *f.ActorID)
	}
	if f.ActorType != nil {
		add("actor_type = $%d", string(*f.ActorType))
	}
	if f.ResourceType != nil {
		add("resource_type = $%d", string(*f.ResourceType))
	}
	if f.ResourceID != "" {
		add("resource_id = $%d", f.ResourceID)
	}
	if f.Action != nil {
		add("action = $%d", string(*f.Action))
	}
	if f.SuspiciousOnly {
		add("risk_score >= $%d", domain.SuspiciousThreshold)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	offset := (f.Page - 1) * f.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM audit_logs %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, auditColumns, where, argIdx, argIdx+1)
	args = append(args, f.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var e domain.AuditLogEntry
		var actorType, action, resourceType string
		var before, after, metadata []byte
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.ActorID, &actorType, &action, &resourceType, &e.ResourceID,
			&before, &after, &e.IPAddress, &e.ClientID, &e.RiskScore, &e.RiskIndicators,
			&metadata, &e.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit row: %w", err)
		}
		e.ActorType = domain.ActorType(actorType)
		e.Action = domain.AuditAction(action)
		e.ResourceType = domain.ResourceType(resourceType)
		if len(before) > 0 {
			e.Before = json.RawMessage(before)
		}
		if len(after) > 0 {
			e.After = json.RawMessage(after)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, 0, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit rows: %w", err)
	}
	return entries, total, nil
}

// FraudStatistics aggregates scored entries; since bounds the recent suspicious count.
func (r *AuditRepo) FraudStatistics(ctx context.Context, tenantID uuid.UUID, since time.Time) (*domain.FraudStatistics, error) {
	stats := &domain.FraudStatistics{TopIndicators: []domain.IndicatorCount{}}
	err := r.pool.QueryRow(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE risk_score >= $2),
		COALESCE(AVG(risk_score), 0)::float8,
		COUNT(*) FILTER (WHERE risk_score >= $2 AND created_at >= $3)
		FROM audit_logs WHERE tenant_id = $1 AND risk_score IS NOT NULL`,
		tenantID, domain.SuspiciousThreshold, since,
	).Scan(&stats.ScoredCount, &stats.SuspiciousCount, &stats.AverageScore, &stats.Suspicious24h)
	if err != nil {
		return nil, fmt.Errorf("fraud statistics: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT indicator, COUNT(*) AS n
		FROM audit_logs, unnest(risk_indicators) AS indicator
		WHERE tenant_id = $1 AND risk_score IS NOT NULL
		GROUP BY indicator ORDER BY n DESC, indicator ASC LIMIT $2`,
		tenantID, topIndicatorLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("top risk indicators: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ic domain.IndicatorCount
		if err := rows.Scan(&ic.Indicator, &ic.Count); err != nil {
			return nil, fmt.Errorf("scan indicator row: %w", err)
		}
		stats.TopIndicators = append(stats.TopIndicators, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indicator rows: %w", err)
	}
	return stats, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode audit metadata: %w", err)
	}
	return b, nil
}

func nullJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
