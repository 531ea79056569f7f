package settings

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresRepo persists vocabulary entries via database/sql (pgx stdlib
// driver). Assumes table: vocabulary_entries with a unique index on
// (kind, label).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vocabulary_entries (id, kind, label, created_at)
		VALUES ($1, $2, $3, $4)`,
		e.ID, string(e.Kind), e.Label, e.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateLabel
	}
	return err
}

func (r *PostgresRepo) FindByLabel(ctx context.Context, kind Kind, label string) (Entry, bool, error) {
	var e Entry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, label, created_at
		FROM vocabulary_entries
		WHERE kind = $1 AND label = $2`, string(kind), label).
		Scan(&e.ID, &e.Kind, &e.Label, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vocabulary_entries WHERE id = $1`, id)
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

func (r *PostgresRepo) List(ctx context.Context, kind Kind) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, label, created_at
		FROM vocabulary_entries
		WHERE kind = $1
		ORDER BY created_at`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Label, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
