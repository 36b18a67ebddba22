// internal/handlers/classify.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/workers"
)

// ImageClassifier labels images, optionally storing the label on an item.
type ImageClassifier interface {
	Classify(ctx context.Context, image string) (string, error)
	ClassifyItem(ctx context.Context, namespace, key, image string) (*domain.Item, error)
}

// ClassifyHandler handles image classification requests
type ClassifyHandler struct {
	responder
	classifier ImageClassifier
	inventory  ports.InventoryService
	enqueuer   workers.Enqueuer
}

// NewClassifyHandler creates a new classify handler. classifier may be nil
// when no model is configured; enqueuer may be nil, which makes every
// classification synchronous.
func NewClassifyHandler(classifier ImageClassifier, inventory ports.InventoryService, enqueuer workers.Enqueuer, logger *slog.Logger) *ClassifyHandler {
	return &ClassifyHandler{
		responder:  responder{logger: logger.With(slog.String("handler", "classify"))},
		classifier: classifier,
		inventory:  inventory,
		enqueuer:   enqueuer,
	}
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	ImageSrc string `json:"imageSrc"`
}

// ClassifyResponse is the body of a successful POST /classify.
type ClassifyResponse struct {
	Result string `json:"result"`
}

// AttachRequest is the body of POST /items/{name}/classification.
type AttachRequest struct {
	ImageSrc string `json:"imageSrc"`
	Async    bool   `json:"async"`
}

// TaskResponse acknowledges an enqueued background task.
type TaskResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	Status string `json:"status"`
}

// Classify handles POST /api/v1/classify
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	if h.classifier == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Classifier is not configured")
		return
	}

	var req ClassifyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImageSrc) == "" {
		h.respondError(w, http.StatusBadRequest, "Image source is required")
		return
	}

	label, err := h.classifier.Classify(r.Context(), req.ImageSrc)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "classification failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to classify image")
		return
	}

	h.respondJSON(w, http.StatusOK, ClassifyResponse{Result: label})
}

// AttachClassification handles POST /api/v1/items/{name}/classification
func (h *ClassifyHandler) AttachClassification(w http.ResponseWriter, r *http.Request) {
	if h.classifier == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Classifier is not configured")
		return
	}

	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	var req AttachRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	name := domain.NormalizeKey(r.PathValue("name"))
	if req.Async && h.enqueuer != nil {
		h.enqueueClassification(w, r, namespace, name, req.ImageSrc)
		return
	}

	item, err := h.classifier.ClassifyItem(r.Context(), namespace, name, req.ImageSrc)
	if err != nil {
		h.respondServiceError(w, r, err, "classify item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

func (h *ClassifyHandler) enqueueClassification(w http.ResponseWriter, r *http.Request, namespace, name, image string) {
	ctx := r.Context()

	if strings.TrimSpace(image) == "" {
		h.respondError(w, http.StatusBadRequest, "Image source is required")
		return
	}
	// Reject unknown items up front rather than in the worker.
	if _, err := h.inventory.Get(ctx, namespace, name); err != nil {
		h.respondServiceError(w, r, err, "classify item")
		return
	}

	task, err := workers.NewClassificationTask(workers.ClassificationPayload{
		Namespace: namespace,
		Name:      name,
		ImageSrc:  image,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "queue classification")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue classification", "err", err)
		h.respondError(w, http.StatusServiceUnavailable, "Task queue unavailable")
		return
	}

	h.logger.InfoContext(ctx, "classification queued",
		slog.String("task_id", info.ID),
		slog.String("item", name))

	h.respondJSON(w, http.StatusAccepted, TaskResponse{TaskID: info.ID, Queue: info.Queue, Status: "queued"})
}
