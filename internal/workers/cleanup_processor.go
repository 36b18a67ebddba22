// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/core/services"
)

// ExportCleaner deletes archived exports past a retention window.
type ExportCleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int, error)
}

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	exports   ExportCleaner
	retention time.Duration
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(exports ExportCleaner, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &CleanupProcessor{
		exports:   exports,
		retention: retention,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupExports removes archived exports older than the retention window.
func (p *CleanupProcessor) CleanupExports(ctx context.Context, t *asynq.Task) error {
	var payload CleanupPayload
	if len(t.Payload()) > 0 {
		if err := decode(t, &payload); err != nil {
			return err
		}
	}
	retention := payload.Retention(p.retention)

	p.logger.InfoContext(ctx, "cleaning up archived exports",
		slog.Duration("retention", retention))

	deleted, err := p.exports.Cleanup(ctx, retention)
	if err != nil {
		if errors.Is(err, services.ErrArchiveDisabled) {
			p.logger.WarnContext(ctx, "export archive disabled, nothing to clean up")
			return nil
		}
		return err
	}

	p.logger.InfoContext(ctx, "archived exports cleaned up",
		slog.Int("deleted", deleted))

	return nil
}
