package controller

import (
	"context"
	"net/http"
	"storefront/pkg/domain"
	"storefront/pkg/ui"
)

// SessionHeader names the session explicitly, taking precedence over the cookie.
const SessionHeader = "X-Session-Id"

type sessionKey struct{}

// GetSessionID returns the session bound to ctx by WithUIState.
func GetSessionID(ctx context.Context) (domain.SessionID, bool) {
	id, ok := ctx.Value(sessionKey{}).(domain.SessionID)

	return id, ok && id != ""
}

// WithUIState returns a middleware that resolves the caller's session and binds
// its ui.State to the request context, so handlers reach it through ui.Use.
// A session cookie is issued when the request names no session.
func WithUIState(sessions *ui.Sessions, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := domain.SessionID(r.Header.Get(SessionHeader))
			if id == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					id = domain.SessionID(c.Value)
				}
			}
			if id == "" {
				id = domain.NewSessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    string(id),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			ctx = ui.WithState(ctx, sessions.Get(id))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
