// internal/core/ports/session.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// UserDirectory looks up accounts by email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// SessionStore keeps issued session tokens.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Find(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteUser(ctx context.Context, userID string) (int, error)
}

// Authenticator is the server side of sign in.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// SessionProvider holds a single client's session and notifies listeners on
// every transition.
type SessionProvider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	OnChange(callback func(*domain.Session)) (unsubscribe func())
	Current() *domain.Session
}
