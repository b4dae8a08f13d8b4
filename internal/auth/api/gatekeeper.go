package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/SurendarRam14/login-authentication-backend/internal/auth/session"
)

// Gatekeeper is the middleware enforcing the access/refresh verification
// protocol ahead of every route.
//
// Per request: public paths pass untouched; everything else needs the
// refresh-token cookie as the root of trust. A present access token is
// tried first (the warm path, no refresh-secret work). Only when that is
// absent or fails does the refresh token get verified, and on success a
// fresh access token rides along on the response cookie — the client never
// sees the renewal as a distinct exchange. A refresh token that fails
// verification closes its login record server-side before the 403: a
// session whose root of trust is no longer valid should not stay open.
func (h *Handler) Gatekeeper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policy := policyFor(r.URL.Path)
		if !policy.requiresAuth {
			next.ServeHTTP(w, r)
			return
		}

		refreshToken, ok := cookieValue(r, h.cfg.RefreshCookieName)
		if !ok {
			writeMessage(w, http.StatusForbidden, "Refresh Token is required")
			return
		}

		now := time.Now().UTC()
		approved := false

		// Access-token fast path. Failure here is not a rejection; the
		// refresh token decides.
		if accessToken, ok := cookieValue(r, h.cfg.AccessCookieName); ok {
			if _, err := h.tokens.VerifyAccess(accessToken, now); err == nil {
				approved = true
			} else {
				h.log.Debug("auth.gatekeeper.access_token.stale", "path", r.URL.Path)
			}
		}

		if !approved {
			userID, err := h.tokens.VerifyRefresh(refreshToken, now)
			if err != nil {
				// The one verification failure that mutates state:
				// proactively close the session this token belonged to.
				if _, closeErr := h.logins.CloseActiveByToken(r.Context(), refreshToken, now); closeErr != nil && !errors.Is(closeErr, session.ErrRecordNotFound) {
					h.log.Error("auth.gatekeeper.close_session.fail", "err", closeErr)
				}
				writeMessage(w, http.StatusForbidden, "Invalid Refresh Token or Token expired")
				return
			}

			// A request that will not be dispatched gets no renewal work;
			// minting stops once the 404 is certain.
			if policy.allowedAfterApproval {
				newAccess, _, err := h.tokens.IssueAccess(userID, now)
				if err != nil {
					h.log.Error("auth.gatekeeper.issue_access.fail", "err", err)
					writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				h.setAccessCookie(w, newAccess, h.tokens.AccessTTL())
			}
			approved = true
		}

		if !policy.allowedAfterApproval {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}

		next.ServeHTTP(w, r)
	})
}
