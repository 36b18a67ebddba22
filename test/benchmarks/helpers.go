// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ammerola/pantry-be/internal/adapters/memory"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/test/helpers"
)

const benchNamespace = "bench-user"

// createBenchmarkService returns an inventory backed by the memory store
// holding count items in benchNamespace.
func createBenchmarkService(b *testing.B, count int) *services.InventoryService {
	b.Helper()

	service := services.NewInventoryService(memory.NewItemStore(), helpers.TestLogger())
	if count == 0 {
		return service
	}

	result, err := service.Import(context.Background(), benchNamespace, helpers.CreateTestItems(count))
	if err != nil {
		b.Fatalf("failed to seed inventory: %v", err)
	}
	if result.Failed > 0 {
		b.Fatalf("failed to seed %d items", result.Failed)
	}
	return service
}

// createImportCSV renders count rows in the importer's column layout.
func createImportCSV(count int) []byte {
	names := []string{
		"basmati rice", "black beans", "usb-c cable", "wool socks",
		"paperback novel", "olive oil", "phone charger", "rain jacket",
	}

	var content strings.Builder
	content.WriteString("name,quantity,category\n")
	for i := 0; i < count; i++ {
		category := domain.DefaultCategories()[i%len(domain.DefaultCategories())]
		fmt.Fprintf(&content, "%s %d,%d,%s\n", names[i%len(names)], i, i%5+1, category)
	}
	return []byte(content.String())
}
