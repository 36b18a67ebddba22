package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.Item
		wantError bool
		errorMsg  string
	}{
		{
			name:      "valid_item",
			item:      domain.Item{Name: "rice", Category: domain.CategoryFood, Quantity: 1},
			wantError: false,
		},
		{
			name:      "valid_item_with_empty_category",
			item:      domain.Item{Name: "rice", Quantity: 3},
			wantError: false,
		},
		{
			name:      "empty_name",
			item:      domain.Item{Quantity: 1},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name:      "whitespace_name",
			item:      domain.Item{Name: "  \t", Quantity: 1},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name:      "zero_quantity",
			item:      domain.Item{Name: "rice"},
			wantError: true,
			errorMsg:  "quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItem_Matches(t *testing.T) {
	item := domain.Item{Name: "Oatmeal", Category: domain.CategoryFood, Quantity: 1}

	assert.True(t, item.MatchesCategory(""))
	assert.True(t, item.MatchesCategory(domain.CategoryAll))
	assert.True(t, item.MatchesCategory(domain.CategoryFood))
	assert.False(t, item.MatchesCategory(domain.CategoryBooks))
	assert.False(t, item.MatchesCategory("food"))

	assert.True(t, item.MatchesSearch(""))
	assert.True(t, item.MatchesSearch("oat"))
	assert.True(t, item.MatchesSearch("MEAL"))
	assert.False(t, item.MatchesSearch("rice"))
}

func TestSortItems(t *testing.T) {
	items := []domain.Item{
		{Name: "soap", Category: "Other"},
		{Name: "oats", Category: domain.CategoryFood},
		{Name: "novel", Category: domain.CategoryBooks},
		{Name: "oatmeal", Category: domain.CategoryFood},
		{Name: "mystery", Category: ""},
	}

	domain.SortItems(items)

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"mystery", "novel", "oatmeal", "oats", "soap"}, names)
}

func TestSummarize(t *testing.T) {
	items := []domain.Item{
		{Name: "novel", Category: domain.CategoryBooks, Quantity: 2},
		{Name: "oatmeal", Category: domain.CategoryFood, Quantity: 1, Classification: "cereal"},
		{Name: "oats", Category: domain.CategoryFood, Quantity: 4},
	}

	summary := domain.Summarize(items)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 7, summary.TotalQuantity)
	assert.Equal(t, 1, summary.Classified)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, domain.CategorySummary{Category: domain.CategoryBooks, Items: 1, TotalQuantity: 2}, summary.Categories[0])
	assert.Equal(t, domain.CategorySummary{Category: domain.CategoryFood, Items: 2, TotalQuantity: 5}, summary.Categories[1])

	empty := domain.Summarize(nil)
	assert.Zero(t, empty.TotalItems)
	assert.NotNil(t, empty.Categories)
}

func TestFilterCategories(t *testing.T) {
	assert.Equal(t, []string{"All", "Food", "Electronics", "Clothing", "Books"}, domain.FilterCategories())
	assert.Equal(t, []string{"Food", "Electronics", "Clothing", "Books"}, domain.DefaultCategories())
}

func TestAuthError_UserMessage(t *testing.T) {
	tests := []struct {
		reason   domain.AuthReason
		expected string
	}{
		{domain.AuthInvalidEmail, "Invalid email address."},
		{domain.AuthWrongPassword, "Incorrect password."},
		{domain.AuthUserNotFound, "No user found with this email."},
		{domain.AuthOther, "Failed to sign in. Please check your credentials."},
		{domain.AuthReason("unknown"), "Failed to sign in. Please check your credentials."},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			err := domain.NewAuthError(tt.reason, nil)
			assert.Equal(t, tt.expected, err.UserMessage())
		})
	}
}

func TestStoreError_MatchesUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("failed to add item: %w", domain.NewStoreError("get", cause))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrItemNotFound)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get", storeErr.Op)
}

func TestParseExportFormat(t *testing.T) {
	format, err := domain.ParseExportFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportPDF, format)
	assert.Equal(t, "inventory_report.pdf", format.Filename())

	format, err = domain.ParseExportFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "inventory.csv", format.Filename())
	assert.Equal(t, "text/csv", format.ContentType())

	_, err = domain.ParseExportFormat("docx")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
