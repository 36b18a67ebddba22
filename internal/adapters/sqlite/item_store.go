// internal/adapters/sqlite/item_store.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS pantry_items (
	namespace      TEXT NOT NULL,
	name           TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	quantity       INTEGER NOT NULL CHECK (quantity >= 1),
	classification TEXT NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL,
	PRIMARY KEY (namespace, name)
)`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

var itemColumns = []string{"name", "category", "quantity", "classification", "created_at", "updated_at"}

// ItemStore keeps items in a single sqlite file. Timestamps are stored as
// unix nanoseconds.
type ItemStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var (
	_ ports.ItemStore = (*ItemStore)(nil)
	_ ports.Database  = (*ItemStore)(nil)
)

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*ItemStore, error) {
	if path == "" {
		path = "pantry.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	store := NewItemStore(db, logger)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite store opened", slog.String("path", path))
	return store, nil
}

// NewItemStore wraps an open handle. The schema must already exist, see
// Migrate.
func NewItemStore(db *sql.DB, logger *slog.Logger) *ItemStore {
	return &ItemStore{
		db:     db,
		logger: logger.With(slog.String("store", "sqlite")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates the items table if it is missing.
func (s *ItemStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

// Get returns one item or domain.ErrItemNotFound.
func (s *ItemStore) Get(ctx context.Context, namespace, key string) (*domain.Item, error) {
	query, args, err := squirrel.Select(itemColumns...).
		From("pantry_items").
		Where(squirrel.Eq{"namespace": namespace, "name": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, domain.NewStoreError("get", err)
	}
	return &item, nil
}

// List returns the namespace ordered by category then name. sqlite's
// default BINARY collation gives byte-wise order.
func (s *ItemStore) List(ctx context.Context, namespace string) ([]domain.Item, error) {
	query, args, err := squirrel.Select(itemColumns...).
		From("pantry_items").
		Where(squirrel.Eq{"namespace": namespace}).
		OrderBy("category", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.NewStoreError("list", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	return items, nil
}

// Upsert writes the full record, keeping created_at of an existing row.
func (s *ItemStore) Upsert(ctx context.Context, namespace string, item domain.Item) error {
	now := s.now().UnixNano()

	query, args, err := squirrel.Insert("pantry_items").
		Columns("namespace", "name", "category", "quantity", "classification", "created_at", "updated_at").
		Values(namespace, item.Name, item.Category, item.Quantity, item.Classification, now, now).
		Suffix(`ON CONFLICT (namespace, name) DO UPDATE SET
			category = excluded.category,
			quantity = excluded.quantity,
			classification = excluded.classification,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError("upsert", err)
	}
	return nil
}

// Delete removes the record. Deleting a missing key is not an error.
func (s *ItemStore) Delete(ctx context.Context, namespace, key string) error {
	query, args, err := squirrel.Delete("pantry_items").
		Where(squirrel.Eq{"namespace": namespace, "name": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError("delete", err)
	}
	return nil
}

// Ping verifies the file is reachable.
func (s *ItemStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Health reports connection pool statistics.
func (s *ItemStore) Health(ctx context.Context) map[string]interface{} {
	stats := s.db.Stats()
	health := map[string]interface{}{
		"status":           "healthy",
		"driver":           "sqlite",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
	}
	if err := s.db.PingContext(ctx); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}
	return health
}

// Close closes the database handle.
func (s *ItemStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var item domain.Item
	var created, updated int64
	if err := row.Scan(&item.Name, &item.Category, &item.Quantity, &item.Classification, &created, &updated); err != nil {
		return domain.Item{}, err
	}
	item.CreatedAt = time.Unix(0, created).UTC()
	item.UpdatedAt = time.Unix(0, updated).UTC()
	return item, nil
}
