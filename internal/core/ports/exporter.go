// internal/core/ports/exporter.go
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// Exporter renders an ordered item list into a file.
type Exporter interface {
	ToCSV(items []domain.Item) ([]byte, error)
	ToPDF(items []domain.Item) ([]byte, error)
	ToXLSX(items []domain.Item) ([]byte, error)
}

// ObjectStorage stores archived exports.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	DeleteOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}
