// internal/core/services/classification.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// ClassificationService labels captured images and stores the label on an
// item.
type ClassificationService struct {
	classifier ports.Classifier
	inventory  ports.InventoryService
	capturer   ports.Capturer
	logger     *slog.Logger
}

// NewClassificationService creates a classification service. capturer may be
// nil when no camera source is configured.
func NewClassificationService(classifier ports.Classifier, inventory ports.InventoryService, capturer ports.Capturer, logger *slog.Logger) *ClassificationService {
	return &ClassificationService{
		classifier: classifier,
		inventory:  inventory,
		capturer:   capturer,
		logger:     logger.With(slog.String("service", "classification")),
	}
}

// Classify returns the label for an image payload.
func (s *ClassificationService) Classify(ctx context.Context, image string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", domain.NewValidationError("imageSrc", "image source is required")
	}

	label, err := s.classifier.Classify(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return "", err
		}
		s.logger.ErrorContext(ctx, "classification failed", "err", err)
		return "", fmt.Errorf("%w: %w", domain.ErrClassificationFailed, err)
	}

	s.logger.InfoContext(ctx, "image classified", slog.String("label", label))
	return label, nil
}

// ClassifyItem classifies the image and attaches the label to the item.
// Both the item name and the image are required, and the item must exist
// before the classifier is called.
func (s *ClassificationService) ClassifyItem(ctx context.Context, namespace, key, image string) (*domain.Item, error) {
	if domain.NormalizeKey(key) == "" {
		return nil, domain.NewValidationError("name", "item name is required")
	}
	if strings.TrimSpace(image) == "" {
		return nil, domain.NewValidationError("imageSrc", "image source is required")
	}

	if _, err := s.inventory.Get(ctx, namespace, key); err != nil {
		return nil, err
	}

	label, err := s.Classify(ctx, image)
	if err != nil {
		return nil, err
	}

	return s.inventory.AttachClassification(ctx, namespace, key, label)
}

// CaptureAndClassify grabs a still from the configured camera source and
// classifies it onto the item.
func (s *ClassificationService) CaptureAndClassify(ctx context.Context, namespace, key string) (*domain.Item, error) {
	if s.capturer == nil {
		return nil, errors.New("no capture source configured")
	}

	image, err := s.capturer.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture image: %w", err)
	}

	return s.ClassifyItem(ctx, namespace, key, image)
}
