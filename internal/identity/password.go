package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the rest of the deployment was
// provisioned with. Raising it only affects newly hashed passwords.
const DefaultBcryptCost = 10

// HashPassword returns a salted bcrypt hash of the plain password.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "empty password"}
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// A mismatch is not an error; only unexpected failures (corrupt hash) are.
func VerifyPassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
