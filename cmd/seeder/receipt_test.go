package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pantry-be/internal/adapters/memory"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/services"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCategoryGuesser(t *testing.T) {
	g := NewCategoryGuesser()

	tests := []struct {
		name string
		want string
	}{
		{"basmati rice", domain.CategoryFood},
		{"AA batteries 8pk", domain.CategoryElectronics},
		{"wool socks", domain.CategoryClothing},
		{"weeknight cookbook", domain.CategoryBooks},
		{"mystery gadget", domain.CategoryFood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Guess(tt.name))
		})
	}
}

func TestReceiptParser_ParseLines(t *testing.T) {
	lines := []string{
		"CORNER MARKET",
		"123 Main St",
		"QTY  DESCRIPTION           PRICE",
		"2 x Basmati Rice 1kg       4.98",
		"Black Beans  ------------  1.29",
		"Organic whole",
		"milk 1L 00412345           2.49 F",
		"",
		"1 basmati rice 1kg         2.49",
		"USB-C cable                $12.99",
		"SUBTOTAL                   24.24",
		"1 x Not An Item            9.99",
	}

	items := NewReceiptParser(discard()).ParseLines(lines)

	require.Len(t, items, 4)
	assert.Equal(t, domain.Item{Name: "basmati rice 1kg", Category: domain.CategoryFood, Quantity: 3}, items[0])
	assert.Equal(t, "black beans", items[1].Name)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "organic whole milk 1l", items[2].Name)
	assert.Equal(t, domain.Item{Name: "usb-c cable", Category: domain.CategoryElectronics, Quantity: 1}, items[3])
}

func TestReceiptParser_NoHeader(t *testing.T) {
	items := NewReceiptParser(discard()).ParseLines([]string{
		"paperback novel  7.50",
		"TOTAL  7.50",
	})

	require.Len(t, items, 1)
	assert.Equal(t, domain.CategoryBooks, items[0].Category)
}

func TestMergeExisting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	inventory := services.NewInventoryService(store, discard())

	require.NoError(t, store.Upsert(ctx, "ns", domain.Item{
		Name: "rice", Category: domain.CategoryFood, Quantity: 2, Classification: "a bag of rice",
	}))

	merged, err := mergeExisting(ctx, inventory, "ns", []domain.Item{
		{Name: "rice", Category: domain.CategoryFood, Quantity: 3},
		{Name: "beans", Category: domain.CategoryFood, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, "a bag of rice", merged[0].Classification)
	assert.Equal(t, 1, merged[1].Quantity)
}
