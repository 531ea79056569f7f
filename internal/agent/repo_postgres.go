package agent

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresRepo persists agents via database/sql (pgx stdlib driver).
// Assumes table: agents with a unique index on username.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const agentColumns = `id, username, password_hash, name, role,
	gateway_url, gateway_username, gateway_password,
	last_login_at, created_at, updated_at`

func scanAgent(row interface{ Scan(dest ...any) error }) (Agent, error) {
	var a Agent
	var gwURL, gwUser, gwPass sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.Role,
		&gwURL, &gwUser, &gwPass, &lastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Agent{}, err
	}
	a.GatewayURL = gwURL.String
	a.GatewayUsername = gwUser.String
	a.GatewayPassword = gwPass.String
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, a Agent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (`+agentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Username, a.PasswordHash, a.Name, a.Role,
		nullIfEmpty(a.GatewayURL), nullIfEmpty(a.GatewayUsername), nullIfEmpty(a.GatewayPassword),
		a.LastLoginAt, a.CreatedAt, a.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateUsername
	}
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Agent, error) {
	a, err := scanAgent(r.db.QueryRowContext(ctx, `
		SELECT `+agentColumns+` FROM agents WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Agent{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepo) FindByUsername(ctx context.Context, username string) (Agent, bool, error) {
	a, err := scanAgent(r.db.QueryRowContext(ctx, `
		SELECT `+agentColumns+` FROM agents WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return Agent{}, false, nil
	}
	if err != nil {
		return Agent{}, false, err
	}
	return a, true, nil
}

func (r *PostgresRepo) Update(ctx context.Context, a Agent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agents
		SET username = $2, password_hash = $3, name = $4, role = $5,
			gateway_url = $6, gateway_username = $7, gateway_password = $8,
			last_login_at = $9, updated_at = $10
		WHERE id = $1`,
		a.ID, a.Username, a.PasswordHash, a.Name, a.Role,
		nullIfEmpty(a.GatewayURL), nullIfEmpty(a.GatewayUsername), nullIfEmpty(a.GatewayPassword),
		a.LastLoginAt, a.UpdatedAt)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, id)
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

func (r *PostgresRepo) List(ctx context.Context) ([]Agent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+agentColumns+` FROM agents ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
