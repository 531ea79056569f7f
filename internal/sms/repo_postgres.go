package sms

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRepo persists SMS logs via database/sql (pgx stdlib driver).
// Assumes table: sms_messages.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const messageColumns = `id, lead_id, agent_id, direction, status, content, attachment, created_at`

func (r *PostgresRepo) Append(ctx context.Context, m Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sms_messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.LeadID, nullIfEmpty(m.AgentID), string(m.Direction), string(m.Status),
		m.Content, nullIfEmpty(m.Attachment), m.CreatedAt)
	return err
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id string, status Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sms_messages SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepo) ListByLead(ctx context.Context, leadID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM sms_messages
		WHERE lead_id = $1
		ORDER BY created_at`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var agentID, attachment sql.NullString
		if err := rows.Scan(&m.ID, &m.LeadID, &agentID, &m.Direction, &m.Status,
			&m.Content, &attachment, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.AgentID = agentID.String
		m.Attachment = attachment.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) HasRecentInbound(ctx context.Context, content string, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sms_messages
			WHERE direction = 'IN' AND content = $1 AND created_at >= $2
		)`, content, since).Scan(&exists)
	return exists, err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
