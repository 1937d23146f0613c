package handler

import (
	"errors"
	"log/slog"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotEventAdmin),
		errors.Is(err, service.ErrNotEventOwner),
		errors.Is(err, service.ErrNotCaptain),
		errors.Is(err, service.ErrInviteRequired):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrTeamNotFound):
		return model.NewNotFoundError("team")
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventCanceled),
		errors.Is(err, service.ErrSlotNotClaimable):
		return model.NewConflictError(err.Error())
	case errors.Is(err, database.ErrConflict):
		return model.NewConflictError("the event changed while processing; please retry")

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrWrongTeamSize):
		return model.NewValidationError([]model.FieldError{{Field: "members", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidSlot):
		return model.NewValidationError([]model.FieldError{{Field: "member_index", Message: err.Error()}})
	case errors.Is(err, service.ErrEventTimeOrder):
		return model.NewValidationError([]model.FieldError{{Field: "end_time", Message: err.Error()}})
	case errors.Is(err, service.ErrSearchQueryTooShort):
		return model.NewValidationError([]model.FieldError{{Field: "q", Message: err.Error()}})
	case errors.Is(err, service.ErrNotRegistered):
		return model.NewValidationError([]model.FieldError{{Field: "user", Message: err.Error()}})

	// ===== Internal Errors → 500 =====
	case errors.Is(err, service.ErrCodeGeneration):
		slog.Error("event code generation exhausted", slog.Any("error", err))
		return model.NewInternalError(err.Error())
	default:
		slog.Error("unmapped service error", slog.Any("error", err))
		return model.NewInternalError("")
	}
}
