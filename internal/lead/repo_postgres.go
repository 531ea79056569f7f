package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostgresRepo persists leads and consultation logs.
//
// NOTE: This repository assumes the following tables exist:
// - leads
// - consultation_logs (append-only, ON DELETE CASCADE from leads)
//
// owner_id is nullable; the empty string maps to NULL (shared pool).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const leadColumns = `
id, name, phone, platform, status, rank, owner_id,
policy_amount, agent_policy_amount, support_amount, ad_cost,
upload_date, callback_schedule, last_memo, detail_reason, as_reason,
is_as_approved, product_info, installed_date, additional_info,
created_at, updated_at`

func scanLead(row interface{ Scan(dest ...any) error }) (Lead, error) {
	var l Lead
	var owner sql.NullString
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Phone,
		&l.Platform,
		&l.Status,
		&l.Rank,
		&owner,
		&l.PolicyAmount,
		&l.AgentPolicyAmount,
		&l.SupportAmount,
		&l.AdCost,
		&l.UploadDate,
		&l.CallbackSchedule,
		&l.LastMemo,
		&l.DetailReason,
		&l.ASReason,
		&l.IsASApproved,
		&l.ProductInfo,
		&l.InstalledDate,
		&l.AdditionalInfo,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	if owner.Valid {
		l.OwnerID = owner.String
	}
	return l, nil
}

func ownerOrNull(ownerID string) any {
	if ownerID == "" {
		return nil
	}
	return ownerID
}

func (r *PostgresRepo) Create(ctx context.Context, l Lead) error {
	const q = `
INSERT INTO leads (` + leadColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.Name, l.Phone, l.Platform, l.Status, l.Rank, ownerOrNull(l.OwnerID),
		l.PolicyAmount, l.AgentPolicyAmount, l.SupportAmount, l.AdCost,
		l.UploadDate, l.CallbackSchedule, l.LastMemo, l.DetailReason, l.ASReason,
		l.IsASApproved, l.ProductInfo, l.InstalledDate, l.AdditionalInfo,
		l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	l, err := scanLead(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Update(ctx context.Context, l Lead) error {
	const q = `
UPDATE leads SET
  name = $2, phone = $3, platform = $4, status = $5, rank = $6, owner_id = $7,
  policy_amount = $8, agent_policy_amount = $9, support_amount = $10, ad_cost = $11,
  upload_date = $12, callback_schedule = $13, last_memo = $14, detail_reason = $15,
  as_reason = $16, is_as_approved = $17, product_info = $18, installed_date = $19,
  additional_info = $20, updated_at = $21
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		l.ID, l.Name, l.Phone, l.Platform, l.Status, l.Rank, ownerOrNull(l.OwnerID),
		l.PolicyAmount, l.AgentPolicyAmount, l.SupportAmount, l.AdCost,
		l.UploadDate, l.CallbackSchedule, l.LastMemo, l.DetailReason,
		l.ASReason, l.IsASApproved, l.ProductInfo, l.InstalledDate,
		l.AdditionalInfo, l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	// consultation_logs cascade via FK.
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Lead, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.OwnerID != "" {
		if f.IncludePool {
			where = append(where, fmt.Sprintf("(owner_id = %s OR owner_id IS NULL)", arg(f.OwnerID)))
		} else {
			where = append(where, fmt.Sprintf("owner_id = %s", arg(f.OwnerID)))
		}
	}
	if f.Platform != "" {
		where = append(where, fmt.Sprintf("platform = %s", arg(f.Platform)))
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = %s", arg(f.Status)))
	}

	q := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByPhone(ctx context.Context, normalized string) (Lead, bool, error) {
	const q = `
SELECT ` + leadColumns + `
FROM leads
WHERE phone = $1
ORDER BY created_at DESC
LIMIT 1
`
	l, err := scanLead(r.db.QueryRowContext(ctx, q, normalized))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, false, nil
		}
		return Lead{}, false, err
	}
	return l, true, nil
}

func (r *PostgresRepo) FindByPhoneSuffix(ctx context.Context, suffix string) (Lead, bool, error) {
	if suffix == "" {
		return Lead{}, false, nil
	}
	const q = `
SELECT ` + leadColumns + `
FROM leads
WHERE phone LIKE '%' || $1
ORDER BY created_at DESC
LIMIT 1
`
	l, err := scanLead(r.db.QueryRowContext(ctx, q, suffix))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, false, nil
		}
		return Lead{}, false, err
	}
	return l, true, nil
}

func (r *PostgresRepo) SetOwnerStatus(ctx context.Context, id, ownerID, status string) (bool, error) {
	const q = `
UPDATE leads SET owner_id = $2, status = $3, updated_at = now()
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, ownerOrNull(ownerID), status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepo) SetAdCostByPlatform(ctx context.Context, platform string, cost int, onlyUnset bool) (int64, error) {
	q := `UPDATE leads SET ad_cost = $2, updated_at = now() WHERE platform = $1`
	if onlyUnset {
		q += ` AND ad_cost = 0`
	}
	res, err := r.db.ExecContext(ctx, q, platform, cost)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepo) AppendLog(ctx context.Context, e LogEntry) error {
	const q = `
INSERT INTO consultation_logs (id, lead_id, writer_id, content, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.LeadID, ownerOrNull(e.WriterID), e.Content, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListLogs(ctx context.Context, leadID string) ([]LogEntry, error) {
	const q = `
SELECT id, lead_id, writer_id, content, created_at
FROM consultation_logs
WHERE lead_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.QueryContext(ctx, q, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var writer sql.NullString
		if err := rows.Scan(&e.ID, &e.LeadID, &writer, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		if writer.Valid {
			e.WriterID = writer.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
