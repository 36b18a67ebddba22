// internal/core/services/export.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// ErrArchiveDisabled is returned when no object storage is configured.
var ErrArchiveDisabled = errors.New("export archive is not configured")

// ExportConfig controls where archived exports go.
type ExportConfig struct {
	Prefix     string
	PresignTTL time.Duration
}

// ExportService renders a user's filtered inventory into downloadable files.
type ExportService struct {
	inventory ports.InventoryService
	exporter  ports.Exporter
	storage   ports.ObjectStorage
	config    ExportConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportService creates an export service. storage may be nil, which
// disables archiving.
func NewExportService(inventory ports.InventoryService, exporter ports.Exporter, storage ports.ObjectStorage, config ExportConfig, logger *slog.Logger) *ExportService {
	if config.Prefix == "" {
		config.Prefix = "exports"
	}
	if config.PresignTTL <= 0 {
		config.PresignTTL = 15 * time.Minute
	}

	return &ExportService{
		inventory: inventory,
		exporter:  exporter,
		storage:   storage,
		config:    config,
		logger:    logger.With(slog.String("service", "export")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Export renders the filtered list in the requested format.
func (s *ExportService) Export(ctx context.Context, namespace string, format domain.ExportFormat, search, category string) (*domain.Report, error) {
	items, err := s.inventory.ListFiltered(ctx, namespace, search, category)
	if err != nil {
		return nil, err
	}

	report, err := s.Render(format, items)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "export rendered",
		slog.String("namespace", namespace),
		slog.String("format", string(format)),
		slog.Int("items", report.ItemCount),
		slog.Int("bytes", len(report.Data)))

	return report, nil
}

// Render turns items into a report without touching the store.
func (s *ExportService) Render(format domain.ExportFormat, items []domain.Item) (*domain.Report, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case domain.ExportCSV:
		data, err = s.exporter.ToCSV(items)
	case domain.ExportPDF:
		data, err = s.exporter.ToPDF(items)
	case domain.ExportXLSX:
		data, err = s.exporter.ToXLSX(items)
	default:
		return nil, domain.NewValidationError("format", "unsupported export format: "+string(format))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	return &domain.Report{
		Format:      format,
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Data:        data,
		ItemCount:   len(items),
	}, nil
}

// Archive uploads a report to object storage and returns a presigned link.
func (s *ExportService) Archive(ctx context.Context, namespace string, report *domain.Report) (*domain.ArchivedReport, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	key := path.Join(s.config.Prefix, namespace,
		fmt.Sprintf("%s-%s-%s", s.now().Format("20060102T150405Z"), uuid.NewString()[:8], report.Filename))

	if err := s.storage.Upload(ctx, key, bytes.NewReader(report.Data), report.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.storage.PresignDownload(ctx, key, s.config.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}

	s.logger.InfoContext(ctx, "export archived",
		slog.String("namespace", namespace),
		slog.String("key", key))

	return &domain.ArchivedReport{
		Key:         key,
		Filename:    report.Filename,
		DownloadURL: url,
		Size:        int64(len(report.Data)),
	}, nil
}

// Cleanup deletes archived exports older than retention.
func (s *ExportService) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	if s.storage == nil {
		return 0, ErrArchiveDisabled
	}

	cutoff := s.now().Add(-retention)
	deleted, err := s.storage.DeleteOlderThan(ctx, s.config.Prefix+"/", cutoff)
	if err != nil {
		return deleted, fmt.Errorf("failed to clean up exports: %w", err)
	}

	s.logger.InfoContext(ctx, "archived exports cleaned up",
		slog.Int("deleted", deleted),
		slog.Time("cutoff", cutoff))

	return deleted, nil
}
