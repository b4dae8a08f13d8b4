package token

import "errors"

var (
	// ErrHMACKeyMissing is returned when the HMAC env key is absent or blank.
	ErrHMACKeyMissing = errors.New("token hmac key missing")

	// ErrHMACKeyTooShort is returned when the configured key is below the minimum length.
	ErrHMACKeyTooShort = errors.New("token hmac key too short")
)
