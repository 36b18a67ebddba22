// internal/workers/classification_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

// ItemClassifier classifies an image onto an existing item.
type ItemClassifier interface {
	ClassifyItem(ctx context.Context, namespace, key, image string) (*domain.Item, error)
}

// ClassificationProcessor handles classification tasks
type ClassificationProcessor struct {
	classifier ItemClassifier
	logger     *slog.Logger
}

// NewClassificationProcessor creates a new classification processor
func NewClassificationProcessor(classifier ItemClassifier, logger *slog.Logger) *ClassificationProcessor {
	return &ClassificationProcessor{
		classifier: classifier,
		logger:     logger.With(slog.String("processor", "classification")),
	}
}

// ProcessAttach classifies the image and stores the label on the item.
// Missing items and bad input are not retried; classifier failures are.
func (p *ClassificationProcessor) ProcessAttach(ctx context.Context, t *asynq.Task) error {
	var payload ClassificationPayload
	if err := decode(t, &payload); err != nil {
		return err
	}

	item, err := p.classifier.ClassifyItem(ctx, payload.Namespace, payload.Name, payload.ImageSrc)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrItemNotFound) {
			p.logger.WarnContext(ctx, "classification dropped",
				slog.String("item", payload.Name),
				"err", err)
			return fmt.Errorf("classification of %q dropped: %v: %w", payload.Name, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to classify %q: %w", payload.Name, err)
	}

	p.logger.InfoContext(ctx, "classification attached",
		slog.String("item", item.Name),
		slog.String("label", item.Classification))

	return nil
}
