// internal/adapters/db/item_store.go
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

const itemsTable = "pantry_items"

var itemColumns = []string{"name", "category", "quantity", "classification", "created_at", "updated_at"}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ItemStore keeps items in postgres, one row per (namespace, name).
type ItemStore struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.ItemStore = (*ItemStore)(nil)

// NewItemStore creates a postgres backed item store
func NewItemStore(db *Database, logger *slog.Logger) *ItemStore {
	return &ItemStore{
		db:     db,
		logger: logger.With(slog.String("store", "postgres")),
	}
}

// Get returns one item or domain.ErrItemNotFound.
func (s *ItemStore) Get(ctx context.Context, namespace, key string) (*domain.Item, error) {
	query, args, err := buildGetQuery(namespace, key)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanItem(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, domain.NewStoreError("get", err)
	}

	return &item, nil
}

// List returns every item in the namespace ordered by category then name.
func (s *ItemStore) List(ctx context.Context, namespace string) ([]domain.Item, error) {
	query, args, err := buildListQuery(namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	items, err := ScanMany(rows, func(row pgx.Rows) (domain.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	return items, nil
}

// Upsert writes the full record, keeping created_at of an existing row.
func (s *ItemStore) Upsert(ctx context.Context, namespace string, item domain.Item) error {
	query, args, err := buildUpsertQuery(namespace, item)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return domain.NewStoreError("upsert", err)
	}

	s.logger.DebugContext(ctx, "item upserted",
		slog.String("namespace", namespace),
		slog.String("name", item.Name),
		slog.Int("quantity", item.Quantity))

	return nil
}

// Delete removes the record. Deleting a missing key is not an error.
func (s *ItemStore) Delete(ctx context.Context, namespace, key string) error {
	query, args, err := psql.Delete(itemsTable).
		Where(squirrel.Eq{"namespace": namespace, "name": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return domain.NewStoreError("delete", err)
	}

	return nil
}

func buildGetQuery(namespace, key string) (string, []interface{}, error) {
	return psql.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"namespace": namespace, "name": key}).
		ToSql()
}

// Ordering uses the C collation so it matches Go's byte-wise string order.
func buildListQuery(namespace string) (string, []interface{}, error) {
	return psql.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"namespace": namespace}).
		OrderBy(`category COLLATE "C"`, `name COLLATE "C"`).
		ToSql()
}

func buildUpsertQuery(namespace string, item domain.Item) (string, []interface{}, error) {
	return psql.Insert(itemsTable).
		Columns("namespace", "name", "category", "quantity", "classification", "created_at", "updated_at").
		Values(namespace, item.Name, item.Category, item.Quantity, item.Classification,
			squirrel.Expr("NOW()"), squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (namespace, name) DO UPDATE SET
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			classification = EXCLUDED.classification,
			updated_at = NOW()`).
		ToSql()
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.Classification,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
