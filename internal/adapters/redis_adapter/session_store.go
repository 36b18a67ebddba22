// internal/adapters/redis_adapter/session_store.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// SessionStore keeps session tokens in Redis with a per key expiry.
// Tokens are also indexed per user so every session of a user can be revoked.
type SessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis backed session store
func NewSessionStore(client *redis.Client, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Save stores the session until ttl elapses.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	userKey := BuildKey(PrefixUserSessions, session.UserID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, BuildKey(PrefixSession, session.Token), data, ttl)
	pipe.SAdd(ctx, userKey, session.Token)
	pipe.Expire(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.DebugContext(ctx, "session stored",
		slog.String("user_id", session.UserID),
		slog.Duration("ttl", ttl))

	return nil
}

// Find loads a session by token. Unknown or expired tokens yield
// domain.ErrUnauthenticated.
func (s *SessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, BuildKey(PrefixSession, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Delete revokes a token. Revoking an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	session, err := s.Find(ctx, token)
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, BuildKey(PrefixSession, token))
	if session != nil {
		pipe.SRem(ctx, BuildKey(PrefixUserSessions, session.UserID), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// DeleteUser revokes every session of a user.
func (s *SessionStore) DeleteUser(ctx context.Context, userID string) (int, error) {
	userKey := BuildKey(PrefixUserSessions, userID)

	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, BuildKey(PrefixSession, token))
	}
	keys = append(keys, userKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	return len(tokens), nil
}
