package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/service"
)

func TestMapServiceError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not admin", service.ErrNotEventAdmin, http.StatusForbidden},
		{"not owner", service.ErrNotEventOwner, http.StatusForbidden},
		{"not captain", service.ErrNotCaptain, http.StatusForbidden},
		{"invite required", service.ErrInviteRequired, http.StatusForbidden},
		{"event not found", service.ErrEventNotFound, http.StatusNotFound},
		{"team not found", service.ErrTeamNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"email taken", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"already registered", service.ErrAlreadyRegistered, http.StatusConflict},
		{"event canceled", service.ErrEventCanceled, http.StatusConflict},
		{"slot taken", service.ErrSlotNotClaimable, http.StatusConflict},
		{"write conflict", database.ErrConflict, http.StatusConflict},
		{"wrong team size", service.ErrWrongTeamSize, http.StatusUnprocessableEntity},
		{"invalid slot", service.ErrInvalidSlot, http.StatusUnprocessableEntity},
		{"time order", service.ErrEventTimeOrder, http.StatusUnprocessableEntity},
		{"short query", service.ErrSearchQueryTooShort, http.StatusUnprocessableEntity},
		{"not registered", service.ErrNotRegistered, http.StatusUnprocessableEntity},
		{"code exhaustion", service.ErrCodeGeneration, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := MapServiceError(tt.err)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
		})
	}
}

func TestMapServiceError_Nil(t *testing.T) {
	assert.Nil(t, MapServiceError(nil))
}

func TestMapServiceError_WrappedErrorsStillMatch(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), service.ErrEventNotFound)
	problem := MapServiceError(wrapped)
	require.NotNil(t, problem)
	assert.Equal(t, http.StatusNotFound, problem.Status)
}

func TestMapServiceError_InternalHidesDetail(t *testing.T) {
	problem := MapServiceError(errors.New("connection string leaked"))
	require.NotNil(t, problem)
	assert.NotContains(t, problem.Detail, "leaked")
}
