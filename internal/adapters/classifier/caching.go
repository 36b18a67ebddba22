// internal/adapters/classifier/caching.go
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/ammerola/pantry-be/internal/core/ports"
)

// CachingClassifier remembers labels by image digest. Cache failures are
// logged and fall through to the wrapped classifier.
type CachingClassifier struct {
	next   ports.Classifier
	cache  ports.LabelCache
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.Classifier = (*CachingClassifier)(nil)

// NewCachingClassifier wraps next with a label cache.
func NewCachingClassifier(next ports.Classifier, cache ports.LabelCache, ttl time.Duration, logger *slog.Logger) *CachingClassifier {
	return &CachingClassifier{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("classifier", "cache")),
	}
}

// Classify returns a cached label or asks the wrapped classifier.
func (c *CachingClassifier) Classify(ctx context.Context, image string) (string, error) {
	digest := Digest(image)

	label, err := c.cache.GetLabel(ctx, digest)
	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "classification cache hit", slog.String("digest", digest))
		return label, nil
	case !errors.Is(err, ports.ErrCacheMiss):
		c.logger.WarnContext(ctx, "classification cache unavailable", "err", err)
	}

	label, err = c.next.Classify(ctx, image)
	if err != nil {
		return "", err
	}

	if err := c.cache.SetLabel(ctx, digest, label, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "failed to cache classification", "err", err)
	}

	return label, nil
}

// Digest identifies an image payload in the cache.
func Digest(image string) string {
	sum := sha256.Sum256([]byte(image))
	return hex.EncodeToString(sum[:])
}
