package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"campusevents/internal/apperr"
)

const pgUniqueViolation = "23505"

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, register_number, branch,
	department, year, section, mobile_number, designation, office_room, created_at`

// Insert writes a new user; email uniqueness maps to Conflict.
func (r *PostgresRepository) Insert(ctx context.Context, usr User) (User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, register_number, branch,
			department, year, section, mobile_number, designation, office_room)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at
	`, usr.ID, usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.RegisterNumber, usr.Branch,
		usr.Department, usr.Year, usr.Section, usr.MobileNumber, usr.Designation, usr.OfficeRoom)
	if err := row.Scan(&usr.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, err
	}
	return usr, nil
}

// Get returns a single user by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a single user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// List returns all users ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var usr User
		if err := rows.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.PasswordHash, &usr.Role,
			&usr.RegisterNumber, &usr.Branch, &usr.Department, &usr.Year, &usr.Section,
			&usr.MobileNumber, &usr.Designation, &usr.OfficeRoom, &usr.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, rows.Err()
}

// Delete removes a user.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *PostgresRepository) SaveRefreshToken(ctx context.Context, token RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token.Token, token.UserID, token.ExpiresAt)
	return err
}

// GetRefreshToken loads a stored refresh token.
func (r *PostgresRepository) GetRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, revoked FROM refresh_tokens WHERE token = $1
	`, token)
	var rt RefreshToken
	if err := row.Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.Revoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshToken{}, apperr.NotFound("refresh token not found")
		}
		return RefreshToken{}, err
	}
	return rt, nil
}

// RevokeRefreshToken marks a token revoked.
func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

func (r *PostgresRepository) scanOne(row *sql.Row) (User, error) {
	var usr User
	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.PasswordHash, &usr.Role,
		&usr.RegisterNumber, &usr.Branch, &usr.Department, &usr.Year, &usr.Section,
		&usr.MobileNumber, &usr.Designation, &usr.OfficeRoom, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, err
	}
	return usr, nil
}
