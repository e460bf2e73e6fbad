// internal/handlers/session.go
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie holds the signed session token.
const SessionCookie = "lucky21_session"

type sessionKey struct{}

// SessionMiddleware resolves the caller's session from the cookie, issuing a
// new session when the cookie is missing or no longer valid.
func (gs *GameServer) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			if id, err := gs.Sessions.AuthenticateJWT(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withSession(r.Context(), id)))
				return
			}
		}

		id, token, err := gs.Sessions.Issue()
		if err != nil {
			gs.Logger.WithError(err).Error("failed to issue session")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		cookie := &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if ttl := gs.Sessions.TTL(); ttl > 0 {
			cookie.MaxAge = int(ttl.Seconds())
		}
		http.SetCookie(w, cookie)
		gs.Logger.WithField("session", id).Debug("issued new session")

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), id)))
	})
}

func withSession(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session ID set by SessionMiddleware.
func SessionFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionKey{}).(uuid.UUID)
	return id, ok
}
