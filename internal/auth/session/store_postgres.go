package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	sectoken "github.com/SurendarRam14/login-authentication-backend/internal/security/token"
)

// PostgresStore implements Store using PostgreSQL (public.user_logins).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed login record store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new active login record and returns it.
// The logout_time column mirrors the login time until the record closes,
// matching the historical row shape.
func (s *PostgresStore) Create(ctx context.Context, now time.Time, userID, refreshToken string) (Record, error) {
	rec := Record{
		ID:               ulid.Make().String(),
		UserID:           userID,
		RefreshTokenHash: sectoken.HashRefreshTokenHex(refreshToken),
		LoggedOut:        false,
		LoginTime:        now.UTC(),
		LogoutTime:       now.UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_logins (
			id, user_id, refresh_token_hash,
			logged_out, login_time, logout_time
		) VALUES ($1, $2, $3, FALSE, $4, $4)
	`, rec.ID, rec.UserID, rec.RefreshTokenHash, rec.LoginTime)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// CloseActiveByToken atomically flips the active record for refreshToken.
func (s *PostgresStore) CloseActiveByToken(ctx context.Context, refreshToken string, now time.Time) (Record, error) {
	hash := sectoken.HashRefreshTokenHex(refreshToken)

	var rec Record
	err := s.pool.QueryRow(ctx, `
		UPDATE user_logins
		SET logged_out = TRUE,
		    logout_time = $2
		WHERE refresh_token_hash = $1 AND logged_out = FALSE
		RETURNING id, user_id, refresh_token_hash, logged_out, login_time, logout_time
	`, hash, now.UTC()).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.RefreshTokenHash,
		&rec.LoggedOut,
		&rec.LoginTime,
		&rec.LogoutTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
