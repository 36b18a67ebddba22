// internal/adapters/memory/item_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// ItemStore keeps pantry items in process memory, partitioned by namespace.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string]map[string]domain.Item
	now   func() time.Time
}

var _ ports.ItemStore = (*ItemStore)(nil)

// NewItemStore creates an empty in-memory store.
func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make(map[string]map[string]domain.Item),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Get returns a copy of the stored item.
func (s *ItemStore) Get(ctx context.Context, namespace, key string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("get", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[namespace][key]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

// List returns a fresh copy of the namespace ordered by category then name.
func (s *ItemStore) List(ctx context.Context, namespace string) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	s.mu.RLock()
	bucket := s.items[namespace]
	items := make([]domain.Item, 0, len(bucket))
	for _, item := range bucket {
		items = append(items, item)
	}
	s.mu.RUnlock()

	domain.SortItems(items)
	return items, nil
}

// Upsert replaces the record for item.Name.
func (s *ItemStore) Upsert(ctx context.Context, namespace string, item domain.Item) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("upsert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.items[namespace]
	if !ok {
		bucket = make(map[string]domain.Item)
		s.items[namespace] = bucket
	}

	now := s.now()
	if existing, ok := bucket[item.Name]; ok {
		item.CreatedAt = existing.CreatedAt
	} else {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	bucket[item.Name] = item
	return nil
}

// Delete removes the record if present.
func (s *ItemStore) Delete(ctx context.Context, namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.items[namespace]; ok {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(s.items, namespace)
		}
	}
	return nil
}

// Ping always succeeds.
func (s *ItemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Health reports the number of namespaces held.
func (s *ItemStore) Health(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"status":     "healthy",
		"driver":     "memory",
		"namespaces": len(s.items),
	}
}
