// internal/handlers/response.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/handlers/middleware"
)

// errBodyTooLarge is reported when the request exceeds the body limit.
var errBodyTooLarge = errors.New("request body too large")

// responder holds the JSON helpers every handler embeds.
type responder struct {
	logger *slog.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto status codes. Backend detail
// is logged, never returned.
func (h responder) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	ctx := r.Context()

	var (
		validation *domain.ValidationError
		authErr    *domain.AuthError
	)

	switch {
	case errors.As(err, &validation):
		h.respondError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, domain.ErrItemNotFound):
		h.respondError(w, http.StatusNotFound, "Item not found")
	case errors.As(err, &authErr):
		h.respondError(w, http.StatusUnauthorized, authErr.UserMessage())
	case errors.Is(err, domain.ErrUnauthenticated):
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrUserExists):
		h.respondError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		h.logger.ErrorContext(ctx, action+" failed", "err", err)
		h.respondError(w, http.StatusServiceUnavailable, "Storage is temporarily unavailable")
	case errors.Is(err, domain.ErrClassificationFailed):
		h.logger.ErrorContext(ctx, action+" failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to classify image")
	default:
		h.logger.ErrorContext(ctx, action+" failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeJSON reads the body into dst and reports a ready-to-send message.
func (h responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.respondError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
		case errors.Is(err, io.EOF):
			h.respondError(w, http.StatusBadRequest, "Request body is required")
		default:
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return true
}

// namespace returns the caller's namespace. Routes without Authenticate
// never reach it.
func (h responder) namespace(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return session.Namespace(), true
}
