package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// PostgresStore implements Store using PostgreSQL (public.users).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed credential store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("identity: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const userColumns = `
	id, email, username, password_hash,
	is_deleted, created_at, last_password_updated_at, last_modified_at
`

// FindByEmail returns the non-deleted user holding email.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, OpError{Op: "identity.FindByEmail", Kind: ErrInvalidInput, Msg: "empty email"}
	}

	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND is_deleted = FALSE
	`, email).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.IsDeleted,
		&u.CreatedAt,
		&u.LastPasswordUpdatedAt,
		&u.LastModifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, NotFoundError{Op: "identity.FindByEmail", Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Create inserts a new user row with all timestamps set to in.Now.
func (s *PostgresStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: "identity.Create", Kind: ErrInvalidInput}
	}
	now := in.Now.UTC()

	u := User{
		ID:                    ulid.Make().String(),
		Email:                 email,
		Username:              strings.TrimSpace(in.Username),
		PasswordHash:          in.PasswordHash,
		CreatedAt:             now,
		LastPasswordUpdatedAt: now,
		LastModifiedAt:        now,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, username, password_hash,
			is_deleted, created_at, last_password_updated_at, last_modified_at
		) VALUES ($1, $2, $3, $4, FALSE, $5, $5, $5)
	`, u.ID, u.Email, u.Username, u.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ConflictError{Op: "identity.Create", Field: "email"}
		}
		return User{}, err
	}
	return u, nil
}

// UpdatePassword swaps the stored hash and bumps the password timestamp.
func (s *PostgresStore) UpdatePassword(ctx context.Context, email, newHash string, now time.Time) (User, error) {
	email = normalizeEmail(email)
	if email == "" || newHash == "" {
		return User{}, OpError{Op: "identity.UpdatePassword", Kind: ErrInvalidInput}
	}

	var u User
	err := s.pool.QueryRow(ctx, `
		UPDATE users
		SET password_hash = $2,
		    last_password_updated_at = $3,
		    last_modified_at = $3
		WHERE email = $1 AND is_deleted = FALSE
		RETURNING `+userColumns+`
	`, email, newHash, now.UTC()).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.IsDeleted,
		&u.CreatedAt,
		&u.LastPasswordUpdatedAt,
		&u.LastModifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, NotFoundError{Op: "identity.UpdatePassword", Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
