package session

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// Integration tests are enabled when AUTH_DATABASE_URL is set and the
// migrations have been applied. In non-CI runs, unreachable Postgres skips
// these tests to keep local runs fast.

func TestPostgresStore_CreateAndCloseByToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbURL := os.Getenv("AUTH_DATABASE_URL")
	if dbURL == "" {
		t.Skip("AUTH_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool := mustPGXPool(ctx, t, dbURL)
	defer pool.Close()

	store := NewPostgresStore(pool)

	userID := mustCreateUser(ctx, t, pool)
	t.Cleanup(func() { cleanupUserData(ctx, t, pool, userID) })

	now := time.Now().UTC().Truncate(time.Microsecond)
	token := "refresh-" + ulid.Make().String()

	created, err := store.Create(ctx, now, userID, token)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.LoggedOut {
		t.Fatal("Create: fresh record already closed")
	}
	if created.RefreshTokenHash == token {
		t.Fatal("Create: raw token stored instead of a hash")
	}

	later := now.Add(2 * time.Second)
	closed, err := store.CloseActiveByToken(ctx, token, later)
	if err != nil {
		t.Fatalf("CloseActiveByToken: %v", err)
	}
	if closed.ID != created.ID {
		t.Fatalf("CloseActiveByToken: closed record %q, want %q", closed.ID, created.ID)
	}
	if !closed.LoggedOut {
		t.Fatal("CloseActiveByToken: record still active")
	}
	if !closed.LogoutTime.After(closed.LoginTime) {
		t.Fatalf("CloseActiveByToken: logout_time %v not after login_time %v", closed.LogoutTime, closed.LoginTime)
	}

	// Closing an already-closed token finds nothing: the first close wins
	// and the second observes the mutation.
	if _, err := store.CloseActiveByToken(ctx, token, later.Add(time.Second)); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("second CloseActiveByToken: err = %v, want ErrRecordNotFound", err)
	}
}

func TestPostgresStore_CloseUnknownToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbURL := os.Getenv("AUTH_DATABASE_URL")
	if dbURL == "" {
		t.Skip("AUTH_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool := mustPGXPool(ctx, t, dbURL)
	defer pool.Close()

	store := NewPostgresStore(pool)
	if _, err := store.CloseActiveByToken(ctx, "never-issued-"+ulid.Make().String(), time.Now().UTC()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("CloseActiveByToken: err = %v, want ErrRecordNotFound", err)
	}
}

func TestPostgresStore_ConcurrentLoginsCloseIndependently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbURL := os.Getenv("AUTH_DATABASE_URL")
	if dbURL == "" {
		t.Skip("AUTH_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool := mustPGXPool(ctx, t, dbURL)
	defer pool.Close()

	store := NewPostgresStore(pool)

	userID := mustCreateUser(ctx, t, pool)
	t.Cleanup(func() { cleanupUserData(ctx, t, pool, userID) })

	now := time.Now().UTC()
	tokenA := "refresh-a-" + ulid.Make().String()
	tokenB := "refresh-b-" + ulid.Make().String()

	recA, err := store.Create(ctx, now, userID, tokenA)
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	recB, err := store.Create(ctx, now, userID, tokenB)
	if err != nil {
		t.Fatalf("Create B: %v", err)
	}

	closedA, err := store.CloseActiveByToken(ctx, tokenA, now.Add(time.Second))
	if err != nil {
		t.Fatalf("CloseActiveByToken A: %v", err)
	}
	if closedA.ID != recA.ID {
		t.Fatalf("closed %q, want %q", closedA.ID, recA.ID)
	}

	// B's record is untouched by A's close.
	closedB, err := store.CloseActiveByToken(ctx, tokenB, now.Add(2*time.Second))
	if err != nil {
		t.Fatalf("CloseActiveByToken B: %v", err)
	}
	if closedB.ID != recB.ID {
		t.Fatalf("closed %q, want %q", closedB.ID, recB.ID)
	}
}

func mustCreateUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	id := ulid.Make().String()
	now := time.Now().UTC()
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, created_at, last_password_updated_at, last_modified_at)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
	`, id, "it-"+strings.ToLower(id)+"@example.com", "integration", "hash", now)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func cleanupUserData(ctx context.Context, t *testing.T, pool *pgxpool.Pool, userID string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `DELETE FROM user_logins WHERE user_id = $1`, userID); err != nil {
		t.Errorf("cleanup user_logins for %q: %v", userID, err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		t.Errorf("cleanup user %q: %v", userID, err)
	}
}

func mustPGXPool(ctx context.Context, t *testing.T, dbURL string) *pgxpool.Pool {
	t.Helper()

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		t.Fatalf("pgxpool.ParseConfig: %v", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("pgxpool.NewWithConfig: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		if shouldSkipIntegration(err) {
			t.Skipf("integration test skipped: Postgres unreachable (AUTH_DATABASE_URL set): %v", err)
		}
		t.Fatalf("pool.Ping: %v", err)
	}

	return pool
}

func shouldSkipIntegration(err error) bool {
	if err == nil {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "no such host")
}
