// internal/handlers/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/pkg/logger"
)

type sessionKey struct{}

// WithSession stores the resolved session on the context.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, session)
	return context.WithValue(ctx, logger.ContextKeyUserID, session.UserID)
}

// SessionFromContext returns the session placed by Authenticate.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return session, ok && session != nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests without a live session. Every inventory
// route runs behind it so the namespace always comes from the session.
func Authenticate(auth ports.Authenticator, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := auth.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
					return
				}
				l.ErrorContext(r.Context(), "failed to resolve session", "err", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Session store unavailable"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
