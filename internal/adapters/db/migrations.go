// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// MigrationConfig points the migrator at a database. An empty SourcePath
// applies the users and pantry_items migrations compiled into the binary.
type MigrationConfig struct {
	DatabaseURL      string
	SourcePath       string
	TableName        string
	SchemaName       string
	StatementTimeout time.Duration
}

func (c *MigrationConfig) withDefaults() MigrationConfig {
	out := *c
	if out.TableName == "" {
		out.TableName = "schema_migrations"
	}
	if out.SchemaName == "" {
		out.SchemaName = "public"
	}
	if out.StatementTimeout == 0 {
		out.StatementTimeout = 5 * time.Minute
	}
	return out
}

// migrationSource opens either the embedded files or a directory on disk.
func migrationSource(path string) (source.Driver, string, error) {
	if path == "" {
		driver, err := iofs.New(embeddedMigrations, "migrations")
		return driver, "iofs", err
	}
	driver, err := source.Open("file://" + path)
	return driver, "file", err
}

// Migrate brings the schema up to date. A database already at the latest
// version is not an error.
func Migrate(ctx context.Context, config *MigrationConfig, logger *slog.Logger) error {
	if config == nil {
		return errors.New("migration config is required")
	}
	cfg := config.withDefaults()

	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{
		MigrationsTable:  cfg.TableName,
		SchemaName:       cfg.SchemaName,
		StatementTimeout: cfg.StatementTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	src, srcName, err := migrationSource(cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance(srcName, src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.WarnContext(ctx, "failed to close migrator",
				slog.Any("source_err", srcErr),
				slog.Any("db_err", dbErr))
		}
	}()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d, fix it by hand before migrating", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.InfoContext(ctx, "schema is up to date", slog.Uint64("version", uint64(version)))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if newVersion, _, err := m.Version(); err == nil {
		logger.InfoContext(ctx, "migrations completed",
			slog.String("source", srcName),
			slog.Uint64("version", uint64(newVersion)))
	}
	return nil
}

// RunMigrationsWithRetry calls Migrate until it succeeds or maxRetries
// attempts fail, waiting longer after each failure while Postgres starts.
func RunMigrationsWithRetry(ctx context.Context, config *MigrationConfig, logger *slog.Logger, maxRetries int) error {
	logger = logger.With(slog.String("component", "migrations"))

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			wait := retryDelay(attempt)
			logger.InfoContext(ctx, "retrying migration", slog.Int("attempt", attempt+1), slog.Duration("wait", wait))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if lastErr = Migrate(ctx, config, logger); lastErr == nil {
			return nil
		}
		logger.ErrorContext(ctx, "migration failed", slog.Int("attempt", attempt+1), "err", lastErr)
	}

	return fmt.Errorf("migrations failed after %d attempts: %w", maxRetries, lastErr)
}
