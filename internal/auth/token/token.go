// Package token signs and verifies the access/refresh token pair.
//
// Both token classes use the same symmetric MAC algorithm (HS256) but are
// bound to disjoint secrets and independently configured lifetimes, so a
// token of one class never verifies against the other and rotating one
// secret leaves the other class untouched.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds the signing material and lifetimes for both token classes.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway is the allowed clock skew during verification.
	Leeway time.Duration
}

// Claims is the payload carried by both access and refresh tokens.
// The class of a token is determined by which secret signed it, not by
// an explicit field.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Manager issues and verifies access and refresh tokens.
type Manager struct {
	cfg Config
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, ErrConfig
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, ErrConfig
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, ErrConfig
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, ErrConfig
	}
	return &Manager{cfg: cfg}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

// IssueAccess mints a short-lived access token for userID.
func (m *Manager) IssueAccess(userID string, now time.Time) (string, time.Time, error) {
	return m.issue(userID, now, m.cfg.AccessSecret, m.cfg.AccessTTL)
}

// IssueRefresh mints a long-lived refresh token for userID.
func (m *Manager) IssueRefresh(userID string, now time.Time) (string, time.Time, error) {
	return m.issue(userID, now, m.cfg.RefreshSecret, m.cfg.RefreshTTL)
}

// VerifyAccess verifies an access token and returns the embedded user id.
func (m *Manager) VerifyAccess(tokenStr string, now time.Time) (string, error) {
	return m.verify(tokenStr, now, m.cfg.AccessSecret)
}

// VerifyRefresh verifies a refresh token and returns the embedded user id.
func (m *Manager) VerifyRefresh(tokenStr string, now time.Time) (string, error) {
	return m.verify(tokenStr, now, m.cfg.RefreshSecret)
}

func (m *Manager) issue(userID string, now time.Time, secret []byte, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *Manager) verify(tokenStr string, now time.Time, secret []byte) (string, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
