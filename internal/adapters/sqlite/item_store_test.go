package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pantry-be/internal/adapters/sqlite"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/test/helpers"
)

func openTempStore(t *testing.T) *sqlite.ItemStore {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "pantry.db"), helpers.TestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestItemStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	_, err := store.Get(ctx, "user-1", "rice")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Category: domain.CategoryFood, Quantity: 1}))
	first, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	require.NoError(t, store.Upsert(ctx, "user-1", domain.Item{Name: "rice", Category: "Grains", Quantity: 5, Classification: "grain"}))
	second, err := store.Get(ctx, "user-1", "rice")
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, "Grains", second.Category)
	assert.Equal(t, "grain", second.Classification)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	require.NoError(t, store.Delete(ctx, "user-1", "rice"))
	require.NoError(t, store.Delete(ctx, "user-1", "rice"))
	_, err = store.Get(ctx, "user-1", "rice")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemStore_ListOrderingAndIsolation(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	for _, item := range []domain.Item{
		{Name: "soap", Category: "Other", Quantity: 1},
		{Name: "oats", Category: domain.CategoryFood, Quantity: 2},
		{Name: "Zest", Category: domain.CategoryFood, Quantity: 1},
		{Name: "oatmeal", Category: domain.CategoryFood, Quantity: 1},
	} {
		require.NoError(t, store.Upsert(ctx, "user-1", item))
	}
	require.NoError(t, store.Upsert(ctx, "user-2", domain.Item{Name: "rice", Category: domain.CategoryFood, Quantity: 1}))

	items, err := store.List(ctx, "user-1")
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Zest", "oatmeal", "oats", "soap"}, names)

	empty, err := store.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestItemStore_Health(t *testing.T) {
	store := openTempStore(t)

	health := store.Health(context.Background())
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "sqlite", health["driver"])
	assert.NoError(t, store.Ping(context.Background()))
}

func TestItemStore_BackendErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		run       func(*sqlite.ItemStore) error
		expected  error
	}{
		{
			name: "get_missing_row",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT name, category, quantity, classification, created_at, updated_at FROM pantry_items WHERE name = ? AND namespace = ?")).
					WithArgs("rice", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"name", "category", "quantity", "classification", "created_at", "updated_at"}))
			},
			run: func(s *sqlite.ItemStore) error {
				_, err := s.Get(context.Background(), "user-1", "rice")
				return err
			},
			expected: domain.ErrItemNotFound,
		},
		{
			name: "get_backend_failure",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM pantry_items").WillReturnError(errors.New("disk I/O error"))
			},
			run: func(s *sqlite.ItemStore) error {
				_, err := s.Get(context.Background(), "user-1", "rice")
				return err
			},
			expected: domain.ErrStoreUnavailable,
		},
		{
			name: "list_backend_failure",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM pantry_items WHERE namespace = \\? ORDER BY category, name").
					WithArgs("user-1").
					WillReturnError(errors.New("database is locked"))
			},
			run: func(s *sqlite.ItemStore) error {
				_, err := s.List(context.Background(), "user-1")
				return err
			},
			expected: domain.ErrStoreUnavailable,
		},
		{
			name: "upsert_backend_failure",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectExec("INSERT INTO pantry_items").
					WithArgs("user-1", "rice", domain.CategoryFood, 1, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(errors.New("readonly database"))
			},
			run: func(s *sqlite.ItemStore) error {
				return s.Upsert(context.Background(), "user-1", domain.Item{Name: "rice", Category: domain.CategoryFood, Quantity: 1})
			},
			expected: domain.ErrStoreUnavailable,
		},
		{
			name: "delete_backend_failure",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta("DELETE FROM pantry_items WHERE name = ? AND namespace = ?")).
					WithArgs("rice", "user-1").
					WillReturnError(errors.New("readonly database"))
			},
			run: func(s *sqlite.ItemStore) error {
				return s.Delete(context.Background(), "user-1", "rice")
			},
			expected: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, db := helpers.SetupMockDB(t)
			tt.setupMock(mock)

			store := sqlite.NewItemStore(db, helpers.TestLogger())
			err := tt.run(store)

			assert.ErrorIs(t, err, tt.expected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
