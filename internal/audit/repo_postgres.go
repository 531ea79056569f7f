package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists audit events via database/sql (pgx stdlib driver).
// Assumes table: audit_events, INSERT-only.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, type, actor_id, actor_role, ip_address, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, string(e.Type), e.ActorID, e.ActorRole, e.IPAddress, e.Action, e.Metadata, e.CreatedAt)
	return err
}
