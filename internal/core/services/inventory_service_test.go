// internal/core/services/inventory_service_test.go
package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/adapters/memory"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/test/helpers"
	"github.com/ammerola/pantry-be/test/mocks"
)

const ns = "user-1"

var errBackend = domain.NewStoreError("get", errors.New("connection refused"))

func TestInventoryService_AddOne(t *testing.T) {
	tests := []struct {
		name             string
		key              string
		category         string
		setupMocks       func(*mocks.MockItemStore)
		expectedQuantity int
		expectedErr      error
	}{
		{
			name:     "creates_new_item_with_quantity_one",
			key:      "rice",
			category: domain.CategoryFood,
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, domain.ErrItemNotFound)
				m.EXPECT().Upsert(gomock.Any(), ns, domain.Item{
					Name: "rice", Category: domain.CategoryFood, Quantity: 1,
				}).Return(nil)
			},
			expectedQuantity: 1,
		},
		{
			name:     "increments_existing_item_and_overwrites_category",
			key:      "rice",
			category: "Grains",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{
					Name: "rice", Category: domain.CategoryFood, Quantity: 2, Classification: "grain",
				}, nil)
				m.EXPECT().Upsert(gomock.Any(), ns, domain.Item{
					Name: "rice", Category: "Grains", Quantity: 3, Classification: "grain",
				}).Return(nil)
			},
			expectedQuantity: 3,
		},
		{
			name:     "empty_category_is_stored_as_given",
			key:      "rice",
			category: "",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{
					Name: "rice", Category: domain.CategoryFood, Quantity: 1,
				}, nil)
				m.EXPECT().Upsert(gomock.Any(), ns, domain.Item{
					Name: "rice", Category: "", Quantity: 2,
				}).Return(nil)
			},
			expectedQuantity: 2,
		},
		{
			name:     "trims_key_before_lookup",
			key:      "  rice ",
			category: domain.CategoryFood,
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, domain.ErrItemNotFound)
				m.EXPECT().Upsert(gomock.Any(), ns, gomock.Any()).Return(nil)
			},
			expectedQuantity: 1,
		},
		{
			name:        "empty_key_rejected_before_store",
			key:         "",
			category:    domain.CategoryFood,
			setupMocks:  func(m *mocks.MockItemStore) {},
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "whitespace_key_rejected_before_store",
			key:         " \t ",
			category:    domain.CategoryFood,
			setupMocks:  func(m *mocks.MockItemStore) {},
			expectedErr: domain.ErrValidation,
		},
		{
			name:     "store_get_failure_surfaced",
			key:      "rice",
			category: domain.CategoryFood,
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, errBackend)
			},
			expectedErr: domain.ErrStoreUnavailable,
		},
		{
			name:     "store_upsert_failure_surfaced",
			key:      "rice",
			category: domain.CategoryFood,
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, domain.ErrItemNotFound)
				m.EXPECT().Upsert(gomock.Any(), ns, gomock.Any()).Return(domain.NewStoreError("upsert", errors.New("timeout")))
			},
			expectedErr: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockItemStore(ctrl)
			tt.setupMocks(store)

			svc := services.NewInventoryService(store, helpers.TestLogger())
			quantity, err := svc.AddOne(context.Background(), ns, tt.key, tt.category)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Zero(t, quantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedQuantity, quantity)
		})
	}
}

func TestInventoryService_RemoveOneOrDelete(t *testing.T) {
	tests := []struct {
		name             string
		setupMocks       func(*mocks.MockItemStore)
		expectedQuantity int
		expectedErr      error
	}{
		{
			name: "deletes_record_at_quantity_one",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{Name: "rice", Quantity: 1}, nil)
				m.EXPECT().Delete(gomock.Any(), ns, "rice").Return(nil)
			},
			expectedQuantity: 0,
		},
		{
			name: "decrements_and_keeps_fields",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{
					Name: "rice", Category: domain.CategoryFood, Quantity: 4, Classification: "grain",
				}, nil)
				m.EXPECT().Upsert(gomock.Any(), ns, domain.Item{
					Name: "rice", Category: domain.CategoryFood, Quantity: 3, Classification: "grain",
				}).Return(nil)
			},
			expectedQuantity: 3,
		},
		{
			name: "missing_item_reports_not_found_without_writing",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, domain.ErrItemNotFound)
			},
			expectedErr: domain.ErrItemNotFound,
		},
		{
			name: "delete_failure_surfaced",
			setupMocks: func(m *mocks.MockItemStore) {
				m.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{Name: "rice", Quantity: 1}, nil)
				m.EXPECT().Delete(gomock.Any(), ns, "rice").Return(domain.NewStoreError("delete", errors.New("boom")))
			},
			expectedErr: domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockItemStore(ctrl)
			tt.setupMocks(store)

			svc := services.NewInventoryService(store, helpers.TestLogger())
			quantity, err := svc.RemoveOneOrDelete(context.Background(), ns, "rice")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedQuantity, quantity)
		})
	}
}

func TestInventoryService_RemoveAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockItemStore(ctrl)
	store.EXPECT().Delete(gomock.Any(), ns, "rice").Return(nil).Times(2)

	svc := services.NewInventoryService(store, helpers.TestLogger())

	require.NoError(t, svc.RemoveAll(context.Background(), ns, "rice"))
	require.NoError(t, svc.RemoveAll(context.Background(), ns, "rice"))
	assert.ErrorIs(t, svc.RemoveAll(context.Background(), ns, " "), domain.ErrValidation)
}

func TestInventoryService_ListFiltered(t *testing.T) {
	stored := []domain.Item{
		{Name: "oatmeal", Category: domain.CategoryFood, Quantity: 1},
		{Name: "oats", Category: domain.CategoryFood, Quantity: 2},
		{Name: "soap", Category: "Other", Quantity: 1},
	}

	tests := []struct {
		name     string
		search   string
		category string
		expected []string
	}{
		{name: "no_filters_returns_everything", expected: []string{"oatmeal", "oats", "soap"}},
		{name: "all_sentinel_matches_every_category", category: "All", expected: []string{"oatmeal", "oats", "soap"}},
		{name: "search_and_category", search: "oa", category: domain.CategoryFood, expected: []string{"oatmeal", "oats"}},
		{name: "search_is_case_insensitive", search: "OAT", expected: []string{"oatmeal", "oats"}},
		{name: "category_is_exact", category: "food", expected: []string{}},
		{name: "search_without_match", search: "rice", expected: []string{}},
		{name: "other_category", category: "Other", expected: []string{"soap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockItemStore(ctrl)
			store.EXPECT().List(gomock.Any(), ns).Return(stored, nil)

			svc := services.NewInventoryService(store, helpers.TestLogger())
			items, err := svc.ListFiltered(context.Background(), ns, tt.search, tt.category)
			require.NoError(t, err)

			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestInventoryService_ListFiltered_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockItemStore(ctrl)
	store.EXPECT().List(gomock.Any(), ns).Return(nil, domain.NewStoreError("list", errors.New("down")))

	svc := services.NewInventoryService(store, helpers.TestLogger())
	_, err := svc.ListFiltered(context.Background(), ns, "", "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestInventoryService_AttachClassification(t *testing.T) {
	t.Run("merges_label_onto_existing_fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockItemStore(ctrl)
		store.EXPECT().Get(gomock.Any(), ns, "rice").Return(&domain.Item{
			Name: "rice", Category: domain.CategoryFood, Quantity: 3,
		}, nil)
		store.EXPECT().Upsert(gomock.Any(), ns, domain.Item{
			Name: "rice", Category: domain.CategoryFood, Quantity: 3, Classification: "a bag of rice",
		}).Return(nil)

		svc := services.NewInventoryService(store, helpers.TestLogger())
		item, err := svc.AttachClassification(context.Background(), ns, "rice", "a bag of rice")
		require.NoError(t, err)
		assert.Equal(t, "a bag of rice", item.Classification)
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("missing_item_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockItemStore(ctrl)
		store.EXPECT().Get(gomock.Any(), ns, "rice").Return(nil, domain.ErrItemNotFound)

		svc := services.NewInventoryService(store, helpers.TestLogger())
		_, err := svc.AttachClassification(context.Background(), ns, "rice", "label")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestInventoryService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockItemStore(ctrl)
	store.EXPECT().Upsert(gomock.Any(), ns, domain.Item{Name: "rice", Category: domain.CategoryFood, Quantity: 4}).Return(nil)
	store.EXPECT().Upsert(gomock.Any(), ns, domain.Item{Name: "novel", Category: domain.CategoryBooks, Quantity: 1}).Return(nil)

	svc := services.NewInventoryService(store, helpers.TestLogger())
	result, err := svc.Import(context.Background(), ns, []domain.Item{
		{Name: " rice ", Category: domain.CategoryFood, Quantity: 4},
		{Name: "", Category: domain.CategoryFood, Quantity: 1},
		{Name: "beans", Quantity: 0},
		{Name: "novel", Category: domain.CategoryBooks, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, "beans", result.Errors[1].Name)
}

func TestInventoryService_ImportReportsSourceRows(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	svc := services.NewInventoryService(store, helpers.TestLogger())

	items, err := export.ParseCSV(strings.NewReader("name,quantity,category\nrice,2,Food\n\n\nbeans,0,Food\n"))
	require.NoError(t, err)

	result, err := svc.Import(ctx, ns, items)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Equal(t, "beans", result.Errors[0].Name)

	stored, err := store.Get(ctx, ns, "rice")
	require.NoError(t, err)
	assert.Zero(t, stored.Row)
}

// The following run against the in-memory store so the observable
// lifecycle is checked end to end.

func TestInventoryService_AddRepeatedly(t *testing.T) {
	ctx := context.Background()
	svc := services.NewInventoryService(memory.NewItemStore(), helpers.TestLogger())

	for n := 1; n <= 5; n++ {
		quantity, err := svc.AddOne(ctx, ns, "beans", domain.CategoryFood)
		require.NoError(t, err)
		assert.Equal(t, n, quantity)
	}
}

func TestInventoryService_EmptyKeyCreatesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	svc := services.NewInventoryService(store, helpers.TestLogger())

	_, err := svc.AddOne(ctx, ns, "", domain.CategoryFood)
	assert.ErrorIs(t, err, domain.ErrValidation)

	items, err := store.List(ctx, ns)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInventoryService_RiceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	svc := services.NewInventoryService(store, helpers.TestLogger())

	_, err := svc.AddOne(ctx, ns, "rice", domain.CategoryFood)
	require.NoError(t, err)
	quantity, err := svc.AddOne(ctx, ns, "rice", domain.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, 2, quantity)

	quantity, err = svc.RemoveOneOrDelete(ctx, ns, "rice")
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)

	item, err := store.Get(ctx, ns, "rice")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	quantity, err = svc.RemoveOneOrDelete(ctx, ns, "rice")
	require.NoError(t, err)
	assert.Zero(t, quantity)

	_, err = store.Get(ctx, ns, "rice")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	items, err := svc.ListFiltered(ctx, ns, "", "")
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "rice", item.Name)
	}
}

func TestInventoryService_RemoveAllRegardlessOfQuantity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	svc := services.NewInventoryService(store, helpers.TestLogger())

	for i := 0; i < 7; i++ {
		_, err := svc.AddOne(ctx, ns, "flour", domain.CategoryFood)
		require.NoError(t, err)
	}

	require.NoError(t, svc.RemoveAll(ctx, ns, "flour"))

	_, err := store.Get(ctx, ns, "flour")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestInventoryService_ListFilteredOrdering(t *testing.T) {
	ctx := context.Background()
	svc := services.NewInventoryService(memory.NewItemStore(), helpers.TestLogger())

	for _, add := range []struct{ key, category string }{
		{"oats", domain.CategoryFood},
		{"soap", "Other"},
		{"oatmeal", domain.CategoryFood},
	} {
		_, err := svc.AddOne(ctx, ns, add.key, add.category)
		require.NoError(t, err)
	}

	items, err := svc.ListFiltered(ctx, ns, "oa", domain.CategoryFood)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "oatmeal", items[0].Name)
	assert.Equal(t, "oats", items[1].Name)

	all, err := svc.ListFiltered(ctx, ns, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"oatmeal", "oats", "soap"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestInventoryService_Summary(t *testing.T) {
	ctx := context.Background()
	svc := services.NewInventoryService(memory.NewItemStore(), helpers.TestLogger())

	for _, key := range []string{"rice", "rice", "beans"} {
		_, err := svc.AddOne(ctx, ns, key, domain.CategoryFood)
		require.NoError(t, err)
	}
	_, err := svc.AddOne(ctx, ns, "atlas", domain.CategoryBooks)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 4, summary.TotalQuantity)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, domain.CategoryBooks, summary.Categories[0].Category)
	assert.Equal(t, 3, summary.Categories[1].TotalQuantity)
}
