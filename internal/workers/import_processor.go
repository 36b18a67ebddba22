// internal/workers/import_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// ImportProcessor handles inventory import tasks
type ImportProcessor struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(service ports.InventoryService, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		service: service,
		logger:  logger.With(slog.String("processor", "import")),
	}
}

// ProcessImport writes the parsed rows into the namespace. Rows are full
// replacements, so a retried task converges on the same state.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := decode(t, &payload); err != nil {
		return err
	}
	if payload.Namespace == "" {
		return fmt.Errorf("import %s has no namespace: %w", payload.JobID, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing import",
		slog.String("job_id", payload.JobID),
		slog.String("filename", payload.Filename),
		slog.Int("rows", len(payload.Items)))

	result, err := p.service.Import(ctx, payload.Namespace, payload.Items)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fmt.Errorf("import %s rejected: %v: %w", payload.JobID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to import %s: %w", payload.JobID, err)
	}

	for _, rowErr := range result.Errors {
		p.logger.WarnContext(ctx, "import row rejected",
			slog.String("job_id", payload.JobID),
			slog.Int("row", rowErr.Row),
			slog.String("name", rowErr.Name),
			slog.String("reason", rowErr.Message))
	}

	p.logger.InfoContext(ctx, "import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed))

	return nil
}
