package handler

import (
	"context"
	"net/http"

	"github.com/nextdink/api/internal/middleware"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/internal/service"
)

// EventHandler handles event lifecycle and query endpoints
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	userID := middleware.GetUserID(r.Context())
	event, err := h.eventService.Create(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// Get handles GET /v1/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.eventService.Get(r.Context(), userID, r.PathValue("eventId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, view, nil)
}

// GetByCode handles GET /v1/events/code/{code}
func (h *EventHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.eventService.GetByCode(r.Context(), userID, r.PathValue("code"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, view, map[string]string{
		"self": "/v1/events/" + view.Event.ID,
	})
}

// Update handles PATCH /v1/events/{eventId}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	userID := middleware.GetUserID(r.Context())
	event, err := h.eventService.Update(r.Context(), userID, r.PathValue("eventId"), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, event, nil)
}

// Cancel handles POST /v1/events/{eventId}/cancel
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	event, err := h.eventService.Cancel(r.Context(), userID, r.PathValue("eventId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, event, nil)
}

// Delete handles DELETE /v1/events/{eventId}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.eventService.Delete(r.Context(), userID, r.PathValue("eventId")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// Attendees handles GET /v1/events/{eventId}/attendees
func (h *EventHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	attendees, err := h.eventService.Attendees(r.Context(), userID, r.PathValue("eventId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, attendees, nil)
}

// ListOwned handles GET /v1/me/events/owned
func (h *EventHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.eventService.ListOwned)
}

// ListAdministered handles GET /v1/me/events/administered
func (h *EventHandler) ListAdministered(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.eventService.ListAdministered)
}

// ListJoined handles GET /v1/me/events/joined
func (h *EventHandler) ListJoined(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.eventService.ListJoined)
}

// ListInvited handles GET /v1/me/events/invited
func (h *EventHandler) ListInvited(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.eventService.ListInvited)
}

// ListDeclined handles GET /v1/me/events/declined
func (h *EventHandler) ListDeclined(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.eventService.ListDeclined)
}

// writeList shapes every listing endpoint the same way: the viewer's
// events annotated with their classification on each.
func (h *EventHandler) writeList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID string) ([]*model.Event, error)) {
	userID := middleware.GetUserID(r.Context())
	events, err := list(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	views := make([]model.EventWithStatus, 0, len(events))
	for _, event := range events {
		views = append(views, model.EventWithStatus{
			Event:      *event,
			UserStatus: event.UserStatus(userID),
		})
	}
	WriteCollection(w, http.StatusOK, views, nil, nil)
}
