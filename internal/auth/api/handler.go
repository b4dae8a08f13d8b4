// Package authapi wires the HTTP auth endpoints and the request gatekeeper
// to the credential store, login record store, and token codec.
package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SurendarRam14/login-authentication-backend/internal/auth/session"
	"github.com/SurendarRam14/login-authentication-backend/internal/identity"
)

// TokenCodec issues and verifies the access/refresh token pair.
type TokenCodec interface {
	IssueAccess(userID string, now time.Time) (string, time.Time, error)
	IssueRefresh(userID string, now time.Time) (string, time.Time, error)
	VerifyAccess(token string, now time.Time) (string, error)
	VerifyRefresh(token string, now time.Time) (string, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// Handler serves the auth operations.
type Handler struct {
	log *slog.Logger
	cfg Config

	users   identity.Store
	logins  session.Store
	markers session.MarkerStore
	tokens  TokenCodec

	bcryptCost int
}

// NewHandler constructs a Handler over the given collaborators.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, logins session.Store, markers session.MarkerStore, tokens TokenCodec) (*Handler, error) {
	if users == nil || logins == nil || markers == nil || tokens == nil {
		return nil, errors.New("authapi: nil dependency")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	return &Handler{
		log:        log,
		cfg:        cfg,
		users:      users,
		logins:     logins,
		markers:    markers,
		tokens:     tokens,
		bcryptCost: identity.DefaultBcryptCost,
	}, nil
}

// Register wires auth routes onto the provided router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/updatePassword", h.handleUpdatePassword)
	r.Post("/forgotPassword", h.handleForgotPassword)
	r.Post("/logout", h.handleLogout)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if identity.IsNotFound(err) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.login.lookup.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ok, err := identity.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.log.Error("auth.login.verify.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, _, err := h.tokens.IssueAccess(user.ID, now)
	if err != nil {
		h.log.Error("auth.login.issue_access.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	refreshToken, _, err := h.tokens.IssueRefresh(user.ID, now)
	if err != nil {
		h.log.Error("auth.login.issue_refresh.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Exactly one new record per successful login; concurrent logins for
	// the same user each get their own record.
	if _, err := h.logins.Create(ctx, now, user.ID, refreshToken); err != nil {
		h.log.Error("auth.login.record.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	markerID, err := h.markers.Create(ctx, user.ID)
	if err != nil {
		h.log.Error("auth.login.marker.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.setAccessCookie(w, accessToken, h.tokens.AccessTTL())
	h.setRefreshCookie(w, refreshToken, h.tokens.RefreshTTL())
	h.setMarkerCookie(w, markerID, h.cfg.SessionTTL)

	h.log.Info("auth.login.ok", "user_id", user.ID)
	writeJSON(w, http.StatusOK, userEnvelope{Message: "Login successful", User: toUserResponse(user)})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		writeMessage(w, http.StatusBadRequest, "Email, password and username are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	} else if !identity.IsNotFound(err) {
		h.log.Error("auth.register.lookup.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	hash, err := identity.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		h.log.Error("auth.register.hash.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, err := h.users.Create(ctx, identity.CreateUserInput{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		// Two registrations racing on one email: the store's unique index
		// decides, the loser reports the same conflict as the pre-check.
		if identity.IsConflict(err) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.log.Error("auth.register.create.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.log.Info("auth.register.ok", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userEnvelope{Message: "User registered successfully", User: toUserResponse(user)})
}

func (h *Handler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "Email, old password and new password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if identity.IsNotFound(err) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.update_password.lookup.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ok, err := identity.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil {
		h.log.Error("auth.update_password.verify.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid old password")
		return
	}

	hash, err := identity.HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		h.log.Error("auth.update_password.hash.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Existing sessions stay valid; only the stored hash changes.
	if _, err := h.users.UpdatePassword(ctx, req.Email, hash, now); err != nil {
		if identity.IsNotFound(err) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.update_password.persist.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.log.Info("auth.update_password.ok", "user_id", user.ID)
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

// handleForgotPassword resets a password on nothing more than knowledge of
// the email. Production deployments are expected to gate this path behind
// an out-of-band verification step (e.g. a one-time emailed link) before a
// request ever reaches it.
func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "Email and new password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	if _, err := h.users.FindByEmail(ctx, req.Email); err != nil {
		if identity.IsNotFound(err) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.forgot_password.lookup.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	hash, err := identity.HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		h.log.Error("auth.forgot_password.hash.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := h.users.UpdatePassword(ctx, req.Email, hash, now); err != nil {
		if identity.IsNotFound(err) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.forgot_password.persist.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := cookieValue(r, h.cfg.RefreshCookieName)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "No active session found")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	// Idempotent: a second logout with the same token finds no active
	// record and that is fine.
	if _, err := h.logins.CloseActiveByToken(ctx, refreshToken, now); err != nil && !errors.Is(err, session.ErrRecordNotFound) {
		h.log.Error("auth.logout.record.fail", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Cookie clearing is gated on marker teardown: if the server-side
	// session cannot be destroyed the client keeps its cookies and the
	// call surfaces a 500.
	if markerID, ok := cookieValue(r, h.cfg.MarkerCookieName); ok {
		if err := h.markers.Destroy(ctx, markerID); err != nil {
			h.log.Error("auth.logout.marker.fail", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	} else {
		// Without the marker cookie there is nothing to address the
		// server-side entry by; it lives on until its TTL runs out.
		h.log.Warn("auth.logout.marker.skipped", "reason", "no marker cookie")
	}

	h.clearAuthCookies(w)
	writeMessage(w, http.StatusOK, "Logout successful")
}
