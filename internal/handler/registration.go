package handler

import (
	"net/http"

	"github.com/nextdink/api/internal/middleware"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/internal/service"
)

// RegistrationHandler handles roster, invitation and admin-management
// endpoints.
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// RegisterTeam handles POST /v1/events/{eventId}/teams
func (h *RegistrationHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	actor := middleware.GetActor(r.Context())
	result, err := h.registrationService.RegisterTeam(r.Context(), actor, r.PathValue("eventId"), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, result, nil)
}

// LeaveTeam handles DELETE /v1/events/{eventId}/registration
func (h *RegistrationHandler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.LeaveTeam(r.Context(), userID, r.PathValue("eventId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// DeclineEvent handles POST /v1/events/{eventId}/decline
func (h *RegistrationHandler) DeclineEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.DeclineEvent(r.Context(), userID, r.PathValue("eventId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// ClaimSlot handles POST /v1/events/{eventId}/teams/{teamId}/claim
func (h *RegistrationHandler) ClaimSlot(w http.ResponseWriter, r *http.Request) {
	var req model.ClaimSlotRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	actor := middleware.GetActor(r.Context())
	result, err := h.registrationService.ClaimSlot(r.Context(), actor, r.PathValue("eventId"), r.PathValue("teamId"), req.MemberIndex)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, result, nil)
}

// UpdateTeamMember handles PATCH /v1/events/{eventId}/teams/{teamId}/members
func (h *RegistrationHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateTeamMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.UpdateTeamMember(r.Context(), userID, r.PathValue("eventId"), r.PathValue("teamId"), &req); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// RemoveTeam handles DELETE /v1/events/{eventId}/teams/{teamId}
func (h *RegistrationHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.RemoveTeam(r.Context(), userID, r.PathValue("eventId"), r.PathValue("teamId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// AddGuestTeam handles POST /v1/events/{eventId}/guest-teams
func (h *RegistrationHandler) AddGuestTeam(w http.ResponseWriter, r *http.Request) {
	var req model.AddGuestTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.registrationService.AddGuestTeam(r.Context(), userID, r.PathValue("eventId"), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, result, nil)
}

// InviteUser handles POST /v1/events/{eventId}/invites
func (h *RegistrationHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req model.InviteRequest
	if err := DecodeJSON(r, &req); err != nil || req.UserID == "" {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.InviteUser(r.Context(), userID, r.PathValue("eventId"), req.UserID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// RemoveInvitation handles DELETE /v1/events/{eventId}/invites/{userId}
func (h *RegistrationHandler) RemoveInvitation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.RemoveInvitation(r.Context(), userID, r.PathValue("eventId"), r.PathValue("userId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// DeclineInvitation handles POST /v1/events/{eventId}/invites/decline
func (h *RegistrationHandler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.DeclineInvitation(r.Context(), userID, r.PathValue("eventId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// AddAdmin handles POST /v1/events/{eventId}/admins
func (h *RegistrationHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req model.AdminRequest
	if err := DecodeJSON(r, &req); err != nil || req.UserID == "" {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.AddAdmin(r.Context(), userID, r.PathValue("eventId"), req.UserID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// RemoveAdmin handles DELETE /v1/events/{eventId}/admins/{userId}
func (h *RegistrationHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.registrationService.RemoveAdmin(r.Context(), userID, r.PathValue("eventId"), r.PathValue("userId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
