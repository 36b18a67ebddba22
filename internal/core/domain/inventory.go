// internal/core/domain/inventory.go
package domain

import (
	"sort"
	"strings"
	"time"
)

// Category constants. Categories are free text; these are the values the
// clients offer by default.
const (
	CategoryFood        = "Food"
	CategoryElectronics = "Electronics"
	CategoryClothing    = "Clothing"
	CategoryBooks       = "Books"

	// CategoryAll is the filter sentinel that matches every category.
	CategoryAll = "All"
)

// DefaultCategories returns the categories offered when adding an item.
func DefaultCategories() []string {
	return []string{CategoryFood, CategoryElectronics, CategoryClothing, CategoryBooks}
}

// FilterCategories returns the categories offered by the list filter.
func FilterCategories() []string {
	return append([]string{CategoryAll}, DefaultCategories()...)
}

// Item is a single pantry record. The name doubles as the key within a
// user's namespace.
type Item struct {
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Quantity       int       `json:"quantity"`
	Classification string    `json:"classification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	// Row is the source line of an imported record. It is zero otherwise
	// and never stored.
	Row int `json:"row,omitempty"`
}

// ID returns the record identifier used by exports.
func (i Item) ID() string {
	return i.Name
}

// Validate checks the item invariants.
func (i *Item) Validate() error {
	if NormalizeKey(i.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if i.Quantity < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	return nil
}

// NormalizeKey trims surrounding whitespace from an item key.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// MatchesCategory reports whether the item passes a category filter.
// An empty filter and the All sentinel match everything.
func (i Item) MatchesCategory(filter string) bool {
	return filter == "" || filter == CategoryAll || i.Category == filter
}

// MatchesSearch reports whether the key contains the search text,
// ignoring case.
func (i Item) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), strings.ToLower(search))
}

// Less orders items by category then key.
func Less(a, b Item) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Name < b.Name
}

// SortItems sorts in place using the store list ordering.
func SortItems(items []Item) {
	sort.SliceStable(items, func(x, y int) bool {
		return Less(items[x], items[y])
	})
}

// CategorySummary holds totals for one category.
type CategorySummary struct {
	Category      string `json:"category"`
	Items         int    `json:"items"`
	TotalQuantity int    `json:"total_quantity"`
}

// Summary aggregates a namespace's inventory.
type Summary struct {
	TotalItems    int               `json:"total_items"`
	TotalQuantity int               `json:"total_quantity"`
	Categories    []CategorySummary `json:"categories"`
	Classified    int               `json:"classified"`
}

// Summarize builds a summary from items already in list order.
func Summarize(items []Item) Summary {
	summary := Summary{Categories: make([]CategorySummary, 0)}
	index := make(map[string]int)

	for _, item := range items {
		summary.TotalItems++
		summary.TotalQuantity += item.Quantity
		if item.Classification != "" {
			summary.Classified++
		}

		pos, ok := index[item.Category]
		if !ok {
			pos = len(summary.Categories)
			index[item.Category] = pos
			summary.Categories = append(summary.Categories, CategorySummary{Category: item.Category})
		}
		summary.Categories[pos].Items++
		summary.Categories[pos].TotalQuantity += item.Quantity
	}

	return summary
}

// ImportRowError describes a rejected import row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
