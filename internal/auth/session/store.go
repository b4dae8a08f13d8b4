// Package session tracks one authoritative login record per active session
// and the server-side session markers tied to browser cookies.
//
// A refresh-token value identifies at most one active (logged_out = false)
// record at a time; closing a record is a single atomic find-and-update so
// concurrent logouts race benignly. Records are never deleted — closed rows
// stay behind as an audit trail.
package session

import (
	"context"
	"time"
)

// Record is one login's lifecycle row.
//
// RefreshTokenHash is the stored key; the plain refresh token only ever
// lives in the client cookie.
type Record struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	LoggedOut        bool
	LoginTime        time.Time
	LogoutTime       time.Time
}

// Store abstracts persistence for login records.
//
// Implementations must enforce at most one active record per refresh token
// and perform CloseActiveByToken as one atomic statement, never as a
// read-then-write pair.
type Store interface {
	// Create inserts a new active record for userID keyed by refreshToken.
	Create(ctx context.Context, now time.Time, userID, refreshToken string) (Record, error)

	// CloseActiveByToken flips the single active record matching
	// refreshToken to logged-out, stamping the logout time. Returns
	// ErrRecordNotFound when no active record matches; it never creates
	// rows.
	CloseActiveByToken(ctx context.Context, refreshToken string, now time.Time) (Record, error)
}
