// internal/adapters/memory/sessions.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// UserDirectory is an in-memory account list keyed by lower-cased email.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

// NewUserDirectory creates an empty directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]domain.User)}
}

// FindByEmail returns the account or domain.ErrUserNotFound.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// Create adds an account. An existing email is rejected.
func (d *UserDirectory) Create(ctx context.Context, user *domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := d.users[key]; ok {
		return domain.ErrUserExists
	}
	d.users[key] = *user
	return nil
}

// SessionStore keeps sessions in memory and drops them after their TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Save stores the session until ttl elapses.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = sessionEntry{
		session:   *session,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Find returns the session or domain.ErrUnauthenticated.
func (s *SessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, domain.ErrUnauthenticated
	}
	session := entry.session
	return &session, nil
}

// Delete revokes a token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// DeleteUser revokes every session of a user.
func (s *SessionStore) DeleteUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked := 0
	for token, entry := range s.sessions {
		if entry.session.UserID == userID {
			delete(s.sessions, token)
			revoked++
		}
	}
	return revoked, nil
}
