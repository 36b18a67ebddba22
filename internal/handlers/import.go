// internal/handlers/import.go
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/workers"
)

// ImportHandler handles bulk imports of CSV and XLSX files
type ImportHandler struct {
	responder
	service     ports.InventoryService
	enqueuer    workers.Enqueuer
	maxFileSize int64
}

// NewImportHandler creates a new import handler. Without an enqueuer the
// import runs inside the request.
func NewImportHandler(service ports.InventoryService, enqueuer workers.Enqueuer, maxFileSize int64, logger *slog.Logger) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	return &ImportHandler{
		responder:   responder{logger: logger.With(slog.String("handler", "import"))},
		service:     service,
		enqueuer:    enqueuer,
		maxFileSize: maxFileSize,
	}
}

// ImportJobResponse acknowledges a queued import.
type ImportJobResponse struct {
	JobID  string `json:"job_id"`
	TaskID string `json:"task_id"`
	Rows   int    `json:"rows"`
	Status string `json:"status"`
}

// Import handles POST /api/v1/items/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	format, ok := importFormat(header.Filename)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Only CSV and XLSX files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	items, err := export.Parse(format, data)
	if err != nil {
		h.logger.WarnContext(ctx, "import file rejected",
			slog.String("filename", header.Filename),
			"err", err)
		h.respondError(w, http.StatusBadRequest, "Invalid import file: "+err.Error())
		return
	}

	if h.enqueuer == nil {
		result, err := h.service.Import(ctx, namespace, items)
		if err != nil {
			h.respondServiceError(w, r, err, "import items")
			return
		}
		h.respondJSON(w, http.StatusOK, result)
		return
	}

	jobID := uuid.New().String()
	task, err := workers.NewImportTask(workers.ImportPayload{
		JobID:     jobID,
		Namespace: namespace,
		Filename:  header.Filename,
		Items:     items,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "queue import")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue import", "err", err)
		h.respondError(w, http.StatusServiceUnavailable, "Task queue unavailable")
		return
	}

	h.logger.InfoContext(ctx, "import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.Int("rows", len(items)))

	h.respondJSON(w, http.StatusAccepted, ImportJobResponse{
		JobID:  jobID,
		TaskID: info.ID,
		Rows:   len(items),
		Status: "queued",
	})
}

func importFormat(filename string) (domain.ExportFormat, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return domain.ExportCSV, true
	case ".xlsx":
		return domain.ExportXLSX, true
	default:
		return "", false
	}
}
