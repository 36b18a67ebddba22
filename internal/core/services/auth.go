// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// AuthConfig tunes the auth service.
type AuthConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// AuthService signs users in against a user directory and issues session
// tokens. Every sign in failure is an *domain.AuthError.
type AuthService struct {
	users    ports.UserDirectory
	sessions ports.SessionStore
	config   AuthConfig
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.Authenticator = (*AuthService)(nil)

// NewAuthService creates a new auth service
func NewAuthService(users ports.UserDirectory, sessions ports.SessionStore, config AuthConfig, logger *slog.Logger) *AuthService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:    users,
		sessions: sessions,
		config:   config,
		logger:   logger.With(slog.String("service", "auth")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SignIn checks the credentials and issues a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "sign in for unknown user", slog.String("email", email))
			return nil, domain.NewAuthError(domain.AuthUserNotFound, err)
		}
		s.logger.ErrorContext(ctx, "user lookup failed", "err", err)
		return nil, domain.NewAuthError(domain.AuthOther, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.InfoContext(ctx, "sign in with wrong password", slog.String("user_id", user.ID))
			return nil, domain.NewAuthError(domain.AuthWrongPassword, nil)
		}
		return nil, domain.NewAuthError(domain.AuthOther, err)
	}

	now := s.now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}

	if err := s.sessions.Save(ctx, session, s.config.SessionTTL); err != nil {
		s.logger.ErrorContext(ctx, "failed to store session", "err", err)
		return nil, domain.NewAuthError(domain.AuthOther, err)
	}

	s.logger.InfoContext(ctx, "user signed in", slog.String("user_id", user.ID))
	return session, nil
}

// SignOut revokes a session token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// SignOutAll revokes every session belonging to the token's user.
func (s *AuthService) SignOutAll(ctx context.Context, token string) (int, error) {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return 0, err
	}

	revoked, err := s.sessions.DeleteUser(ctx, session.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.InfoContext(ctx, "all sessions revoked",
		slog.String("user_id", session.UserID),
		slog.Int("revoked", revoked))

	return revoked, nil
}

// Resolve returns the live session for a token, or domain.ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	if session.Expired(s.now()) {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// Register creates an account with a bcrypt hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, domain.NewValidationError("email", "invalid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           userID(email),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, nil
}

// userIDSpace scopes the name based UUIDs issued to accounts.
var userIDSpace = uuid.MustParse("5b0f8a52-3c1e-4f8e-9a51-7c2d3e4f5a6b")

// userID derives the account id from the normalized email. A directory
// rebuilt from scratch hands the same namespace back to the same address.
func userID(email string) string {
	return uuid.NewSHA1(userIDSpace, []byte(email)).String()
}

// normalizeEmail accepts a bare address only, not "Name <addr>".
func normalizeEmail(email string) (string, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return strings.ToLower(email), true
}
