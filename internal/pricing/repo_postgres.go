package pricing

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresRepo persists channels via database/sql (pgx stdlib driver).
// Assumes table: ad_channels with a unique index on name.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const channelColumns = `id, name, unit_cost, created_at, updated_at`

func scanChannel(row interface{ Scan(dest ...any) error }) (Channel, error) {
	var ch Channel
	err := row.Scan(&ch.ID, &ch.Name, &ch.UnitCost, &ch.CreatedAt, &ch.UpdatedAt)
	return ch, err
}

func (r *PostgresRepo) Create(ctx context.Context, ch Channel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ad_channels (`+channelColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		ch.ID, ch.Name, ch.UnitCost, ch.CreatedAt, ch.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateName
	}
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Channel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx, `
		SELECT `+channelColumns+` FROM ad_channels WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Channel{}, ErrNotFound
	}
	return ch, err
}

func (r *PostgresRepo) FindByName(ctx context.Context, name string) (Channel, bool, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx, `
		SELECT `+channelColumns+` FROM ad_channels WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Channel{}, false, nil
	}
	if err != nil {
		return Channel{}, false, err
	}
	return ch, true, nil
}

func (r *PostgresRepo) Update(ctx context.Context, ch Channel) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ad_channels
		SET name = $2, unit_cost = $3, updated_at = $4
		WHERE id = $1`,
		ch.ID, ch.Name, ch.UnitCost, ch.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateName
		}
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM ad_channels WHERE id = $1`, id)
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

func (r *PostgresRepo) List(ctx context.Context) ([]Channel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+channelColumns+` FROM ad_channels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
