package authapi

import (
	"context"
	"net/http"

	"bombay/cmd/internal/auth/session"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	sessionKey
)

// RequireLogin gates next behind a valid session. Rejected requests get a
// 403 with the session error's message; store failures keep their 5xx
// status. Building the gate starts a background sweep of stale sessions.
func (h *Handler) RequireLogin(next http.Handler) http.Handler {
	h.sessions.SweepInBackground(h.now())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := h.sessions.IsLoggedIn(r.Context(), session.TokenFromRequest(r), h.now())
		if err != nil {
			status := http.StatusForbidden
			if s := session.StatusOf(err); s >= 500 {
				h.log.ErrorContext(r.Context(), "auth.gate.fail", "err", err)
				status = s
			}
			writeError(w, status, session.CodeOf(err), session.MessageOf(err))
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, res.User)
		ctx = context.WithValue(ctx, sessionKey, res.Session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller identity stored by RequireLogin.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(identityKey).(session.Identity)
	return id, ok
}

// SessionFromContext returns the session row stored by RequireLogin.
func SessionFromContext(ctx context.Context) (session.Row, bool) {
	row, ok := ctx.Value(sessionKey).(session.Row)
	return row, ok
}
