// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// InventoryService maps pantry intents onto item store calls. It holds no
// state between calls; each mutation is one get+write (or a single write)
// against the store, with no transaction spanning the pair.
type InventoryService struct {
	store  ports.ItemStore
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(store ports.ItemStore, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		store:  store,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// AddOne creates the item with quantity 1 or increments it by one. The
// category is always overwritten with the supplied value, empty included.
// It returns the resulting quantity.
func (s *InventoryService) AddOne(ctx context.Context, namespace, key, category string) (int, error) {
	key, err := requireKey(key)
	if err != nil {
		return 0, err
	}

	quantity := 1
	item, err := s.store.Get(ctx, namespace, key)
	switch {
	case err == nil:
		quantity = item.Quantity + 1
	case errors.Is(err, domain.ErrItemNotFound):
		item = &domain.Item{Name: key}
	default:
		return 0, fmt.Errorf("failed to load item: %w", err)
	}

	item.Category = category
	item.Quantity = quantity

	if err := s.store.Upsert(ctx, namespace, *item); err != nil {
		return 0, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "item added",
		slog.String("namespace", namespace),
		slog.String("item", key),
		slog.String("category", category),
		slog.Int("quantity", quantity))

	return quantity, nil
}

// RemoveOneOrDelete decrements the quantity, deleting the record instead of
// letting it reach zero. It returns the remaining quantity, 0 when deleted.
func (s *InventoryService) RemoveOneOrDelete(ctx context.Context, namespace, key string) (int, error) {
	key, err := requireKey(key)
	if err != nil {
		return 0, err
	}

	item, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to load item: %w", err)
	}

	if item.Quantity <= 1 {
		if err := s.store.Delete(ctx, namespace, key); err != nil {
			return 0, fmt.Errorf("failed to delete item: %w", err)
		}
		s.logger.InfoContext(ctx, "item deleted after last unit removed",
			slog.String("namespace", namespace),
			slog.String("item", key))
		return 0, nil
	}

	item.Quantity--
	if err := s.store.Upsert(ctx, namespace, *item); err != nil {
		return 0, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "item decremented",
		slog.String("namespace", namespace),
		slog.String("item", key),
		slog.Int("quantity", item.Quantity))

	return item.Quantity, nil
}

// RemoveAll deletes the record regardless of quantity. Missing keys are not
// an error.
func (s *InventoryService) RemoveAll(ctx context.Context, namespace, key string) error {
	key, err := requireKey(key)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, namespace, key); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "item removed",
		slog.String("namespace", namespace),
		slog.String("item", key))

	return nil
}

// ListFiltered returns the items passing the category filter whose name
// contains search, ignoring case, in store order.
func (s *InventoryService) ListFiltered(ctx context.Context, namespace, search, category string) ([]domain.Item, error) {
	items, err := s.store.List(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.MatchesCategory(category) && item.MatchesSearch(search) {
			filtered = append(filtered, item)
		}
	}

	s.logger.DebugContext(ctx, "listed items",
		slog.String("namespace", namespace),
		slog.String("search", search),
		slog.String("category", category),
		slog.Int("total", len(items)),
		slog.Int("matched", len(filtered)))

	return filtered, nil
}

// AttachClassification sets the label on an existing record, keeping every
// other field.
func (s *InventoryService) AttachClassification(ctx context.Context, namespace, key, label string) (*domain.Item, error) {
	key, err := requireKey(key)
	if err != nil {
		return nil, err
	}

	item, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	item.Classification = label
	if err := s.store.Upsert(ctx, namespace, *item); err != nil {
		return nil, fmt.Errorf("failed to save classification: %w", err)
	}

	s.logger.InfoContext(ctx, "classification attached",
		slog.String("namespace", namespace),
		slog.String("item", key),
		slog.String("label", label))

	return item, nil
}

// Get returns a single item.
func (s *InventoryService) Get(ctx context.Context, namespace, key string) (*domain.Item, error) {
	key, err := requireKey(key)
	if err != nil {
		return nil, err
	}

	item, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return item, nil
}

// Summary aggregates the namespace by category.
func (s *InventoryService) Summary(ctx context.Context, namespace string) (*domain.Summary, error) {
	items, err := s.store.List(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	summary := domain.Summarize(items)
	return &summary, nil
}

// Import writes every valid row as a full replacement of its record. Invalid
// rows are reported and skipped. A store failure aborts the import.
func (s *InventoryService) Import(ctx context.Context, namespace string, items []domain.Item) (*domain.ImportResult, error) {
	result := &domain.ImportResult{}

	for i := range items {
		item := items[i]
		item.Name = domain.NormalizeKey(item.Name)

		// parsed files carry their source line; otherwise count from 1
		row := item.Row
		if row == 0 {
			row = i + 1
		}
		item.Row = 0

		if err := item.Validate(); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, domain.ImportRowError{
				Row:     row,
				Name:    item.Name,
				Message: err.Error(),
			})
			continue
		}

		if err := s.store.Upsert(ctx, namespace, item); err != nil {
			return result, fmt.Errorf("failed to import row %d: %w", row, err)
		}
		result.Imported++
	}

	s.logger.InfoContext(ctx, "items imported",
		slog.String("namespace", namespace),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed))

	return result, nil
}

func requireKey(key string) (string, error) {
	key = domain.NormalizeKey(key)
	if key == "" {
		return "", domain.NewValidationError("name", "item name is required")
	}
	return key, nil
}
