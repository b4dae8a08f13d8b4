package token

import "errors"

var (
	// ErrTokenInvalid is returned when a token is malformed, carries an
	// unexpected signing method, or was signed with the wrong secret.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is returned when a structurally valid token is past
	// its expiry. Callers that do not care about the distinction may treat
	// it the same as ErrTokenInvalid.
	ErrTokenExpired = errors.New("token expired")

	// ErrConfig is returned for invalid codec configuration.
	ErrConfig = errors.New("invalid token config")
)
