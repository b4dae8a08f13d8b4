package session

import "context"

// MarkerStore holds the server-side session markers referenced by the SID
// cookie. A marker ties one browser to one user id for the configured
// session lifetime.
type MarkerStore interface {
	// Create stores a fresh marker for userID and returns its id.
	Create(ctx context.Context, userID string) (string, error)

	// Lookup resolves a marker id to the user it was created for.
	// Returns ErrMarkerNotFound for unknown or expired markers.
	Lookup(ctx context.Context, markerID string) (string, error)

	// Destroy removes a marker. Destroying an unknown marker is a no-op.
	Destroy(ctx context.Context, markerID string) error
}
