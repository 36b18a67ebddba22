// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// InventoryService defines the application service port for a user's pantry.
// This interface is implemented by the application service.
type InventoryService interface {
	AddOne(ctx context.Context, namespace, key, category string) (int, error)
	RemoveOneOrDelete(ctx context.Context, namespace, key string) (int, error)
	RemoveAll(ctx context.Context, namespace, key string) error
	ListFiltered(ctx context.Context, namespace, search, category string) ([]domain.Item, error)
	AttachClassification(ctx context.Context, namespace, key, label string) (*domain.Item, error)
	Get(ctx context.Context, namespace, key string) (*domain.Item, error)
	Summary(ctx context.Context, namespace string) (*domain.Summary, error)
	Import(ctx context.Context, namespace string, items []domain.Item) (*domain.ImportResult, error)
}
