package handler

import (
	"net/http"

	"github.com/nextdink/api/internal/service"
)

// UserHandler handles user directory endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Search handles GET /v1/users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.userService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, profiles, nil, nil)
}

// Get handles GET /v1/users/{userId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, profile, nil)
}
