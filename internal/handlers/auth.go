// internal/handlers/auth.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/handlers/middleware"
)

// AccountService is the auth surface the HTTP API exposes.
type AccountService interface {
	ports.Authenticator
	Register(ctx context.Context, email, password string) (*domain.User, error)
	SignOutAll(ctx context.Context, token string) (int, error)
}

// AuthHandler handles sign in, sign out and registration
type AuthHandler struct {
	responder
	auth AccountService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger.With(slog.String("handler", "auth"))},
		auth:      auth,
	}
}

// CredentialsRequest is the body of sign in and register.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err, "sign in")
		return
	}

	h.respondJSON(w, http.StatusOK, session)
}

// SignOut handles POST /api/v1/auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		h.respondServiceError(w, r, err, "sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignOutAll handles POST /api/v1/auth/sign-out-all
func (h *AuthHandler) SignOutAll(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.auth.SignOutAll(r.Context(), middleware.BearerToken(r))
	if err != nil {
		h.respondServiceError(w, r, err, "sign out")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int{"revoked": revoked})
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err, "register")
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}
