// internal/adapters/db/user_directory.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// UserDirectory stores accounts in the users table.
type UserDirectory struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

// NewUserDirectory creates a postgres backed user directory
func NewUserDirectory(db *Database, logger *slog.Logger) *UserDirectory {
	return &UserDirectory{
		db:     db,
		logger: logger.With(slog.String("store", "users")),
	}
}

// FindByEmail looks an account up case-insensitively.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query, args, err := psql.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var user domain.User
	err = d.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("find user", err)
	}

	return &user, nil
}

// Create inserts an account, failing with domain.ErrUserExists on a
// duplicate email.
func (d *UserDirectory) Create(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return domain.NewStoreError("create user", err)
	}

	d.logger.InfoContext(ctx, "user created", slog.String("user_id", user.ID))
	return nil
}
