// Package identity is the credential persistence boundary: user rows,
// email lookup, and password hashing.
package identity

import (
	"context"
	"time"
)

// User is the stored credential principal.
//
// PasswordHash must never be serialized to a client or written to a log.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string

	// IsDeleted soft-deletes the row; at most one non-deleted user exists
	// per email.
	IsDeleted bool

	CreatedAt             time.Time
	LastPasswordUpdatedAt time.Time
	LastModifiedAt        time.Time
}

// CreateUserInput describes a registration request. Password must already
// be hashed by the caller.
type CreateUserInput struct {
	Email        string
	Username     string
	PasswordHash string
	Now          time.Time
}

// Store is the Credential Store contract used by the auth operations.
type Store interface {
	// FindByEmail returns the non-deleted user holding email.
	// Returns ErrNotFound when no such user exists.
	FindByEmail(ctx context.Context, email string) (User, error)

	// Create persists a new user with soft-delete false and all
	// timestamps set to in.Now. Duplicate emails return ErrConflict.
	Create(ctx context.Context, in CreateUserInput) (User, error)

	// UpdatePassword replaces the stored hash for the non-deleted user
	// holding email, bumping last_password_updated_at and
	// last_modified_at. Returns ErrNotFound when no such user exists.
	UpdatePassword(ctx context.Context, email, newHash string, now time.Time) (User, error)
}
