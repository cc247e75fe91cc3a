package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, tenant_id, user_id, amount, pix_key, pix_key_type, recipient_name, status,
		admin_notes, rejection_reason, admin_id, risk_score, risk_indicators, psp_transaction_id,
		end_to_end_id, origin_ip, requested_at, approved_at, processed_at, completed_at, updated_at`

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
	tx   *Transactor
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool, tx: NewTransactor(pool)}
}

// Create inserts a new withdrawal request.
func (r *WithdrawalRepo) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.TenantID, w.UserID, w.Amount, w.PixKey, string(w.PixKeyType), w.RecipientName,
		string(w.Status), w.AdminNotes, w.RejectionReason, w.AdminID, w.RiskScore,
		indicators(w.RiskIndicators), w.PspTransactionID, w.EndToEndID, w.OriginIP,
		w.RequestedAt, w.ApprovedAt, w.ProcessedAt, w.CompletedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal within a tenant.
func (r *WithdrawalRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 AND tenant_id = $2`
	return r.scanWithdrawal(r.pool.QueryRow(ctx, query, id, tenantID))
}

// GetBySendID resolves a PSP send id. Send ids are the withdrawal id without
// hyphens, or a PSP transaction id recorded earlier.
func (r *WithdrawalRepo) GetBySendID(ctx context.Context, sendID string) (*domain.WithdrawalRequest, error) {
	if sendID == "" {
		return nil, nil
	}
	if id, err := uuid.Parse(sendID); err == nil {
		query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
		w, err := r.scanWithdrawal(r.pool.QueryRow(ctx, query, id))
		if err != nil || w != nil {
			return w, err
		}
	}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE psp_transaction_id = $1 LIMIT 1`
	return r.scanWithdrawal(r.pool.QueryRow(ctx, query, sendID))
}

// GetByEndToEndID resolves the BACEN end-to-end id of a sent PIX.
func (r *WithdrawalRepo) GetByEndToEndID(ctx context.Context, endToEndID string) (*domain.WithdrawalRequest, error) {
	if endToEndID == "" {
		return nil, nil
	}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE end_to_end_id = $1`
	return r.scanWithdrawal(r.pool.QueryRow(ctx, query, endToEndID))
}

// List returns a page of a tenant's withdrawals, newest first, and the total count.
func (r *WithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argIdx))
	args = append(args, params.TenantID)
	argIdx++

	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*params.Status))
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("requested_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("requested_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM withdrawal_requests %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM withdrawal_requests %s
		ORDER BY requested_at DESC LIMIT $%d OFFSET $%d`, withdrawalColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}
	items, err := collectWithdrawals(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Transition applies w only if the stored status is still from, and records
// the status change in the same transaction.
func (r *WithdrawalRepo) Transition(ctx context.Context, from domain.WithdrawalStatus, w *domain.WithdrawalRequest) error {
	return r.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE withdrawal_requests SET
			status = $4, admin_notes = $5, rejection_reason = $6, admin_id = $7,
			psp_transaction_id = $8, end_to_end_id = $9, approved_at = $10,
			processed_at = $11, completed_at = $12, updated_at = $13
			WHERE id = $1 AND tenant_id = $2 AND status = $3`,
			w.ID, w.TenantID, string(from),
			string(w.Status), w.AdminNotes, w.RejectionReason, w.AdminID,
			w.PspTransactionID, w.EndToEndID, w.ApprovedAt,
			w.ProcessedAt, w.CompletedAt, w.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update withdrawal status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrStatusConflict
		}

		_, err = tx.Exec(ctx, `INSERT INTO withdrawal_status_history
			(withdrawal_id, tenant_id, from_status, to_status, changed_at)
			VALUES ($1, $2, $3, $4, $5)`,
			w.ID, w.TenantID, string(from), string(w.Status), w.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert status history: %w", err)
		}
		return nil
	})
}

// GetPattern aggregates the user's withdrawals requested at or before at.
func (r *WithdrawalRepo) GetPattern(ctx context.Context, tenantID, userID uuid.UUID, at time.Time) (*domain.WithdrawalPattern, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE requested_at > $4),
		COALESCE(SUM(amount) FILTER (WHERE requested_at > $4), 0),
		COUNT(*) FILTER (WHERE requested_at > $5),
		COALESCE(SUM(amount) FILTER (WHERE requested_at > $5), 0),
		COUNT(*),
		COALESCE(SUM(amount), 0),
		MAX(requested_at),
		COALESCE(array_agg(DISTINCT pix_key), '{}'),
		COALESCE(array_agg(DISTINCT origin_ip) FILTER (WHERE origin_ip <> '' AND requested_at > $6), '{}')
		FROM withdrawal_requests
		WHERE tenant_id = $1 AND user_id = $2 AND requested_at <= $3`

	p := &domain.WithdrawalPattern{}
	var lifetime int64
	err := r.pool.QueryRow(ctx, query,
		tenantID, userID, at,
		at.Add(-24*time.Hour), at.Add(-7*24*time.Hour), at.Add(-30*24*time.Hour),
	).Scan(
		&p.Count24h, &p.Total24h, &p.Count7d, &p.Total7d,
		&p.TotalCount, &lifetime, &p.LastRequestAt,
		&p.KnownPixKeys, &p.RecentIPs,
	)
	if err != nil {
		return nil, fmt.Errorf("get withdrawal pattern: %w", err)
	}
	if p.TotalCount > 0 {
		p.AverageAmount = lifetime / int64(p.TotalCount)
	}
	p.DistinctPixKeys = len(p.KnownPixKeys)
	sort.Strings(p.KnownPixKeys)
	sort.Strings(p.RecentIPs)
	return p, nil
}

// ListStale returns up to limit withdrawals stuck in status since before cutoff.
func (r *WithdrawalRepo) ListStale(ctx context.Context, status domain.WithdrawalStatus, cutoff time.Time, limit int) ([]domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
		WHERE status = $1 AND updated_at < $2 ORDER BY updated_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(status), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale withdrawals: %w", err)
	}
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	defer rows.Close()

	items := []domain.WithdrawalRequest{}
	for rows.Next() {
		w, err := scanWithdrawalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal row: %w", err)
		}
		items = append(items, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawal rows: %w", err)
	}
	return items, nil
}

// scanWithdrawal scans a single row, mapping no rows to (nil, nil).
func (r *WithdrawalRepo) scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	w, err := scanWithdrawalRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan withdrawal: %w", err)
	}
	return w, nil
}

func scanWithdrawalRow(row pgx.Row) (*domain.WithdrawalRequest, error) {
	w := &domain.WithdrawalRequest{}
	var keyType, status string
	err := row.Scan(
		&w.ID, &w.TenantID, &w.UserID, &w.Amount, &w.PixKey, &keyType, &w.RecipientName,
		&status, &w.AdminNotes, &w.RejectionReason, &w.AdminID, &w.RiskScore,
		&w.RiskIndicators, &w.PspTransactionID, &w.EndToEndID, &w.OriginIP,
		&w.RequestedAt, &w.ApprovedAt, &w.ProcessedAt, &w.CompletedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.PixKeyType = domain.PixKeyType(keyType)
	w.Status = domain.WithdrawalStatus(status)
	return w, nil
}

// indicators keeps NOT NULL array columns from receiving a nil slice.
func indicators(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
