// internal/core/ports/item_store.go
package ports

import (
	"context"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// ItemStore is the persistence port for pantry items. Every call is scoped
// to a namespace; nothing is visible across namespaces.
//
// Get returns domain.ErrItemNotFound on a miss. List is ordered by category
// then name and is read fresh on every call. Upsert fully replaces the stored
// record. Delete succeeds when the record is already absent. Backend failures
// are returned as *domain.StoreError.
type ItemStore interface {
	Get(ctx context.Context, namespace, key string) (*domain.Item, error)
	List(ctx context.Context, namespace string) ([]domain.Item, error)
	Upsert(ctx context.Context, namespace string, item domain.Item) error
	Delete(ctx context.Context, namespace, key string) error
}
