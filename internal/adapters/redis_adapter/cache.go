// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pantry-be/internal/core/ports"
)

// CacheKeyPrefix namespaces keys by what they hold.
type CacheKeyPrefix string

const (
	PrefixClassification CacheKeyPrefix = "classify"
	PrefixSession        CacheKeyPrefix = "session"
	PrefixUserSessions   CacheKeyPrefix = "user_sessions"
)

// LabelCache keeps classification labels as plain strings under
// classify:<digest>.
type LabelCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *slog.Logger
}

var _ ports.LabelCache = (*LabelCache)(nil)

// NewLabelCache creates a label cache. defaultTTL applies when SetLabel is
// called with a zero ttl; zero there too means no expiry.
func NewLabelCache(client *redis.Client, defaultTTL time.Duration, logger *slog.Logger) *LabelCache {
	return &LabelCache{
		client:     client,
		defaultTTL: defaultTTL,
		logger:     logger.With(slog.String("component", "label_cache")),
	}
}

// GetLabel returns the cached label or ports.ErrCacheMiss.
func (c *LabelCache) GetLabel(ctx context.Context, digest string) (string, error) {
	key := LabelKey(digest)

	label, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && label == "") {
		c.logger.DebugContext(ctx, "label cache miss", slog.String("key", key))
		return "", ports.ErrCacheMiss
	}
	if err != nil {
		return "", &CacheError{Op: "get", Key: key, Err: err}
	}

	return label, nil
}

// SetLabel stores label for digest. Empty labels are not cached.
func (c *LabelCache) SetLabel(ctx context.Context, digest, label string, ttl time.Duration) error {
	if label == "" {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	key := LabelKey(digest)
	if err := c.client.Set(ctx, key, label, ttl).Err(); err != nil {
		return &CacheError{Op: "set", Key: key, Err: err}
	}

	c.logger.DebugContext(ctx, "label cached",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return nil
}

// LabelKey is the Redis key a digest's label lives under.
func LabelKey(digest string) string {
	return BuildKey(PrefixClassification, digest)
}

// BuildKey joins a prefix and parts with colons.
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}

// CacheError wraps a failed Redis call with the key it was for.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
