// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by GetLabel when no label is stored for a digest.
var ErrCacheMiss = errors.New("cache miss")

// LabelCache remembers classifier output keyed by the digest of the image
// payload. Implementations report a miss as ErrCacheMiss; any other error
// means the cache itself is unavailable.
type LabelCache interface {
	GetLabel(ctx context.Context, digest string) (string, error)
	SetLabel(ctx context.Context, digest, label string, ttl time.Duration) error
}
