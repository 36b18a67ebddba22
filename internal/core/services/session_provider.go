// internal/core/services/session_provider.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// SessionProvider holds the session of a single client and tells listeners
// about every sign in and sign out. Listeners run synchronously, in
// registration order, outside the provider lock.
type SessionProvider struct {
	auth   ports.Authenticator
	logger *slog.Logger

	mu        sync.Mutex
	current   *domain.Session
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(*domain.Session)
}

var _ ports.SessionProvider = (*SessionProvider)(nil)

// NewSessionProvider creates a signed out provider.
func NewSessionProvider(auth ports.Authenticator, logger *slog.Logger) *SessionProvider {
	return &SessionProvider{
		auth:   auth,
		logger: logger.With(slog.String("component", "session_provider")),
	}
}

// SignIn authenticates and makes the new session current. A failed sign in
// leaves the current session untouched. It returns the user id.
func (p *SessionProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	session, err := p.auth.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	previous := p.current
	p.current = session
	p.mu.Unlock()

	if previous != nil {
		if err := p.auth.SignOut(ctx, previous.Token); err != nil {
			p.logger.WarnContext(ctx, "failed to revoke replaced session", "err", err)
		}
	}

	p.notify(session)
	return session.UserID, nil
}

// SignOut clears the current session. Signing out while signed out is a
// no-op and does not notify.
func (p *SessionProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	previous := p.current
	p.current = nil
	p.mu.Unlock()

	if previous == nil {
		return nil
	}

	p.notify(nil)

	if err := p.auth.SignOut(ctx, previous.Token); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// OnChange registers callback and invokes it once with the current state.
// It is invoked again on every transition until unsubscribe is called.
func (p *SessionProvider) OnChange(callback func(*domain.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners = append(p.listeners, listener{id: id, fn: callback})
	current := copySession(p.current)
	p.mu.Unlock()

	callback(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, l := range p.listeners {
				if l.id == id {
					p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Current returns a copy of the active session, or nil.
func (p *SessionProvider) Current() *domain.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySession(p.current)
}

func (p *SessionProvider) notify(session *domain.Session) {
	p.mu.Lock()
	listeners := make([]listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(copySession(session))
	}
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
