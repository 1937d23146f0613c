package handler

import (
	"net/http"

	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, resp, nil)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, resp, nil)
}
