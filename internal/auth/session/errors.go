package session

import "errors"

var (
	// ErrRecordNotFound is returned when no active login record matches a
	// refresh token. Callers treat it as an idempotent no-op on logout.
	ErrRecordNotFound = errors.New("login record not found")

	// ErrMarkerNotFound is returned when a session marker id does not
	// resolve to a user.
	ErrMarkerNotFound = errors.New("session marker not found")
)
