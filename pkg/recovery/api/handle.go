package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-recover/pkg/recovery"
)

// Handler exposes the recovery workflow over HTTP
type Handler struct {
	service *recovery.RecoveryService
}

// NewHandler creates a new recovery API handler
func NewHandler(service *recovery.RecoveryService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts the recovery routes on r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recover", func(r chi.Router) {
		r.Post("/", h.Recover)
		r.Get("/confirm/{key}", h.Confirm)
		r.Get("/cancel/{key}", h.Cancel)
		r.Post("/reset", h.ResetPassword)
	})
}

// Recover handles POST /recover
func (h *Handler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Email == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Email is required"})
		return
	}

	purpose := recovery.Purpose(req.Purpose)
	if req.Purpose == "" {
		purpose = recovery.PurposeResetPassword
	}
	if !purpose.Valid() {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Unknown purpose"})
		return
	}

	err := h.service.Request(r.Context(), req.Email, purpose, req.ReturnUrl)
	if err != nil {
		if errors.Is(err, recovery.ErrDeliveryFailed) {
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, ErrorResponse{Error: "Could not deliver the verification message, please retry"})
			return
		}
		slog.Error("Failed to start recovery", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred"})
		return
	}

	// Same response whether or not the address exists.
	render.Status(r, http.StatusOK)
	render.JSON(w, r, RecoverResponse{
		Message: "If the address is registered, a verification message has been sent",
	})
}

// Confirm handles GET /recover/confirm/{key}
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	purpose := recovery.Purpose(r.URL.Query().Get("purpose"))
	if purpose == "" {
		purpose = recovery.PurposeResetPassword
	}

	record, err := h.service.Confirm(r.Context(), key, purpose)
	if err != nil {
		h.renderResolveError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ResolveResponse{
		Message:   "Verification confirmed",
		ReturnUrl: record.VerificationReturnTarget,
	})
}

// Cancel handles GET /recover/cancel/{key}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	_, err := h.service.Cancel(r.Context(), key)
	if err != nil {
		h.renderResolveError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ResolveResponse{
		Message: "Recovery request cancelled",
	})
}

// ResetPassword handles POST /recover/reset
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Token == "" || req.Password == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Token and password are required"})
		return
	}

	err := h.service.CompletePasswordReset(r.Context(), req.Token, req.Password)
	if err != nil {
		h.renderResolveError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ResetPasswordResponse{
		Message: "Password has been reset",
	})
}

// renderResolveError maps the workflow error taxonomy to HTTP responses. The
// four expected outcomes stay distinguishable so the frontend can show the
// right message for each.
func (h *Handler) renderResolveError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	message := "Failed to resolve verification key"

	switch {
	case errors.Is(err, recovery.ErrKeyNotFound):
		status = http.StatusNotFound
		message = "Invalid verification key"
	case errors.Is(err, recovery.ErrPurposeMismatch):
		status = http.StatusBadRequest
		message = "Verification key does not match this operation"
	case errors.Is(err, recovery.ErrKeyExpired):
		status = http.StatusBadRequest
		message = "Verification key has expired"
	case errors.Is(err, recovery.ErrAlreadyConsumed):
		status = http.StatusConflict
		message = "Verification key has already been used"
	default:
		slog.Error("Failed to resolve verification key", "error", err)
		status = http.StatusInternalServerError
		message = "An error occurred"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
