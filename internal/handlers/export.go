// internal/handlers/export.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/services"
)

// ReportService renders and archives inventory exports.
type ReportService interface {
	Export(ctx context.Context, namespace string, format domain.ExportFormat, search, category string) (*domain.Report, error)
	Archive(ctx context.Context, namespace string, report *domain.Report) (*domain.ArchivedReport, error)
}

var _ ReportService = (*services.ExportService)(nil)

// ExportHandler handles export operations
type ExportHandler struct {
	responder
	exports ReportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports ReportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		responder: responder{logger: logger.With(slog.String("handler", "export"))},
		exports:   exports,
	}
}

// Export handles GET /api/v1/export/{format}. The search and category
// query parameters filter the rows exactly like the list.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, ok := h.render(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.Header().Set("X-Item-Count", strconv.Itoa(report.ItemCount))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(report.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", "err", err)
	}
}

// Archive handles POST /api/v1/export/{format}/archive
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	report, ok := h.render(w, r)
	if !ok {
		return
	}

	namespace, _ := h.namespace(w, r)
	archived, err := h.exports.Archive(r.Context(), namespace, report)
	if err != nil {
		if errors.Is(err, services.ErrArchiveDisabled) {
			h.respondError(w, http.StatusNotImplemented, "Export archive is not configured")
			return
		}
		h.respondServiceError(w, r, err, "archive export")
		return
	}

	h.respondJSON(w, http.StatusCreated, archived)
}

func (h *ExportHandler) render(w http.ResponseWriter, r *http.Request) (*domain.Report, bool) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return nil, false
	}

	format, err := domain.ParseExportFormat(r.PathValue("format"))
	if err != nil {
		h.respondServiceError(w, r, err, "export")
		return nil, false
	}

	query := r.URL.Query()
	report, err := h.exports.Export(r.Context(), namespace, format,
		query.Get("search"), query.Get("category"))
	if err != nil {
		h.respondServiceError(w, r, err, "export inventory")
		return nil, false
	}

	return report, true
}
