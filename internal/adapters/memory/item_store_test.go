package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pantry-be/internal/adapters/memory"
	"github.com/ammerola/pantry-be/internal/core/domain"
)

func TestItemStore_GetMissing(t *testing.T) {
	store := memory.NewItemStore()

	item, err := store.Get(context.Background(), "user-1", "rice")
	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemStore_UpsertReplacesRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{
		Name: "rice", Category: domain.CategoryFood, Quantity: 2, Classification: "grain",
	}))
	first, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: 5}))

	got, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Empty(t, got.Category)
	assert.Empty(t, got.Classification)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(first.UpdatedAt))
}

func TestItemStore_ListOrdering(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()

	for _, item := range []domain.Item{
		{Name: "soap", Category: "Other", Quantity: 1},
		{Name: "oats", Category: domain.CategoryFood, Quantity: 1},
		{Name: "oatmeal", Category: domain.CategoryFood, Quantity: 1},
		{Name: "atlas", Category: domain.CategoryBooks, Quantity: 1},
	} {
		require.NoError(t, store.Upsert(ctx, "user-1", item))
	}

	items, err := store.List(ctx, "user-1")
	require.NoError(t, err)

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"atlas", "oatmeal", "oats", "soap"}, names)
}

func TestItemStore_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: 1}))

	_, err := store.Get(ctx, "user-2", "rice")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	items, err := store.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: 1}))
	require.NoError(t, store.Delete(ctx, "user-1", "rice"))
	require.NoError(t, store.Delete(ctx, "user-1", "rice"))
	require.NoError(t, store.Delete(ctx, "nobody", "rice"))

	_, err := store.Get(ctx, "user-1", "rice")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: 1}))

	items, err := store.List(ctx, "user-1")
	require.NoError(t, err)
	items[0].Quantity = 99

	got, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestItemStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := memory.NewItemStore()

	_, err := store.List(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestItemStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Quantity: i + 1})
			_, _ = store.List(ctx, "user-1")
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Quantity, 1)
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	session := &domain.Session{Token: "tok", UserID: "user-1"}
	require.NoError(t, store.Save(ctx, session, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	_, err := store.Find(ctx, "tok")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionStore_DeleteUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	require.NoError(t, store.Save(ctx, &domain.Session{Token: "a", UserID: "u1"}, time.Hour))
	require.NoError(t, store.Save(ctx, &domain.Session{Token: "b", UserID: "u1"}, time.Hour))
	require.NoError(t, store.Save(ctx, &domain.Session{Token: "c", UserID: "u2"}, time.Hour))

	n, err := store.DeleteUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := store.Find(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "u2", found.UserID)
}

func TestUserDirectory_CaseInsensitiveEmail(t *testing.T) {
	ctx := context.Background()
	dir := memory.NewUserDirectory()

	require.NoError(t, dir.Create(ctx, &domain.User{ID: "u1", Email: "Cook@Example.com"}))
	assert.ErrorIs(t, dir.Create(ctx, &domain.User{ID: "u2", Email: "cook@example.com"}), domain.ErrUserExists)

	user, err := dir.FindByEmail(ctx, "COOK@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = dir.FindByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
