// internal/workers/middleware.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/pkg/logger"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
)

// Observe tags the context with the task identity for the log handler,
// logs the outcome and records it in metrics. m may be nil.
func Observe(l *slog.Logger, m *metrics.Metrics) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			start := time.Now()

			ctx = context.WithValue(ctx, logger.ContextKeyTaskType, t.Type())
			if id, ok := asynq.GetTaskID(ctx); ok {
				ctx = context.WithValue(ctx, logger.ContextKeyTaskID, id)
			}

			err := next.ProcessTask(ctx, t)

			if m != nil {
				m.ObserveTask(t.Type(), err)
			}

			if err != nil {
				retried, _ := asynq.GetRetryCount(ctx)
				l.ErrorContext(ctx, "task failed",
					slog.Int("retried", retried),
					slog.Duration("duration", time.Since(start)),
					"err", err)
				return err
			}

			l.InfoContext(ctx, "task processed",
				slog.Duration("duration", time.Since(start)))
			return nil
		})
	}
}

// NewServeMux registers every processor on an asynq mux. classification is
// nil without a classifier and cleanup is nil when archiving is disabled.
func NewServeMux(classification *ClassificationProcessor, imports *ImportProcessor, cleanup *CleanupProcessor, middlewares ...asynq.MiddlewareFunc) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(middlewares...)

	mux.HandleFunc(TypeInventoryImport, imports.ProcessImport)
	if classification != nil {
		mux.HandleFunc(TypeClassificationAttach, classification.ProcessAttach)
	}
	if cleanup != nil {
		mux.HandleFunc(TypeExportsCleanup, cleanup.CleanupExports)
	}

	return mux
}
