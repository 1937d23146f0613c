package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/middleware"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/internal/service"
	"github.com/nextdink/api/pkg/jwt"
)

// ============================================================================
// In-Memory Event Repository
// ============================================================================

type memEventRepo struct {
	events map[string]*model.Event
	nextID int
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*model.Event)}
}

func (m *memEventRepo) Create(ctx context.Context, event *model.Event) error {
	m.nextID++
	event.ID = fmt.Sprintf("event:%d", m.nextID)
	m.events[event.ID] = event
	return nil
}

func (m *memEventRepo) Get(ctx context.Context, eventID string) (*model.Event, error) {
	event, ok := m.events[eventID]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (m *memEventRepo) GetByCode(ctx context.Context, code string) (*model.Event, error) {
	for _, e := range m.events {
		if e.Code == code && e.Status == model.EventStatusActive {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memEventRepo) CodeInUse(ctx context.Context, code string) (bool, error) {
	for _, e := range m.events {
		if e.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEventRepo) UpdateAtomic(ctx context.Context, eventID string, fn func(*model.Event) error) (*model.Event, error) {
	event, ok := m.events[eventID]
	if !ok {
		return nil, database.ErrNotFound
	}
	working := *event
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.Revision++
	m.events[eventID] = &working
	return &working, nil
}

func (m *memEventRepo) Delete(ctx context.Context, eventID string) error {
	delete(m.events, eventID)
	return nil
}

func (m *memEventRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *memEventRepo) ListByAdmin(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *memEventRepo) ListByParticipant(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *memEventRepo) ListByInvited(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *memEventRepo) ListByDeclined(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

// ============================================================================
// Test Harness
// ============================================================================

// tokenValidator treats the raw bearer token as the user ID.
type tokenValidator struct{}

func (tokenValidator) Validate(token string) (*jwt.Claims, error) {
	return &jwt.Claims{
		UserID: token,
		Name:   "Player " + token,
	}, nil
}

func newRegistrationServer(repo *memEventRepo) http.Handler {
	h := NewRegistrationHandler(service.NewRegistrationService(repo))
	auth := middleware.Auth(tokenValidator{})

	mux := http.NewServeMux()
	mux.Handle("POST /v1/events/{eventId}/teams", auth(http.HandlerFunc(h.RegisterTeam)))
	mux.Handle("DELETE /v1/events/{eventId}/registration", auth(http.HandlerFunc(h.LeaveTeam)))
	mux.Handle("POST /v1/events/{eventId}/teams/{teamId}/claim", auth(http.HandlerFunc(h.ClaimSlot)))
	mux.Handle("DELETE /v1/events/{eventId}/teams/{teamId}", auth(http.HandlerFunc(h.RemoveTeam)))
	mux.Handle("POST /v1/events/{eventId}/invites", auth(http.HandlerFunc(h.InviteUser)))
	return mux
}

func seedHandlerEvent(repo *memEventRepo, teamSize, maxTeams int) *model.Event {
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	repo.nextID++
	event := &model.Event{
		ID:            fmt.Sprintf("event:%d", repo.nextID),
		Code:          "AB2CD",
		Title:         "Handler Test Event",
		Date:          start,
		EndTime:       start.Add(2 * time.Hour),
		TeamSize:      teamSize,
		MaxTeams:      maxTeams,
		Visibility:    model.VisibilityPublic,
		JoinType:      model.JoinOpen,
		Status:        model.EventStatusActive,
		OwnerID:       "user:owner",
		Registrations: []model.TeamRegistration{},
	}
	repo.events[event.ID] = event
	return event
}

func doJSON(t *testing.T, server http.Handler, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userID)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

// ============================================================================
// Tests
// ============================================================================

func TestRegistrationHandler_RegisterTeam_Created(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 2, 4)
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams", "user:a",
		model.RegisterTeamRequest{
			Members: []model.TeamMember{{Type: model.SlotUser}, {Type: model.SlotGuest, DisplayName: "Pat"}},
		})

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data model.JoinResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.RegistrationJoined, resp.Data.Status)
	assert.NotEmpty(t, resp.Data.TeamID)

	stored := repo.events[event.ID]
	require.Len(t, stored.Registrations, 1)
	// The captain slot is attributed from the token claims
	assert.Equal(t, "user:a", stored.Registrations[0].Members[0].UserID)
	assert.Equal(t, "Player user:a", stored.Registrations[0].Members[0].DisplayName)
}

func TestRegistrationHandler_RegisterTeam_BadBody(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 2, 4)
	server := newRegistrationServer(repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/"+event.ID+"/teams", bytes.NewBufferString("{nope"))
	req.Header.Set("Authorization", "Bearer user:a")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/problem+json")
}

func TestRegistrationHandler_RegisterTeam_WrongSize_Unprocessable(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 2, 4)
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams", "user:a",
		model.RegisterTeamRequest{Members: []model.TeamMember{{Type: model.SlotUser}}})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRegistrationHandler_RegisterTeam_EventNotFound(t *testing.T) {
	repo := newMemEventRepo()
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/event:missing/teams", "user:a",
		model.RegisterTeamRequest{Members: []model.TeamMember{{Type: model.SlotUser}}})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRegistrationHandler_RegisterTeam_Unauthenticated(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 1, 4)
	server := newRegistrationServer(repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/"+event.ID+"/teams", bytes.NewBufferString("{}"))
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegistrationHandler_ClaimAndLeaveFlow(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 2, 4)
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams", "user:a",
		model.RegisterTeamRequest{
			Members: []model.TeamMember{{Type: model.SlotUser}, {Type: model.SlotOpen}},
		})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Data model.JoinResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	teamID := created.Data.TeamID

	// user:b claims the open slot
	rr = doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams/"+teamID+"/claim", "user:b",
		model.ClaimSlotRequest{MemberIndex: 1})
	require.Equal(t, http.StatusOK, rr.Code)

	// claiming the same slot again conflicts
	rr = doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams/"+teamID+"/claim", "user:c",
		model.ClaimSlotRequest{MemberIndex: 1})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// user:b leaves, reopening the slot
	rr = doJSON(t, server, http.MethodDelete, "/v1/events/"+event.ID+"/registration", "user:b", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	team, _ := repo.events[event.ID].FindRegistration(teamID)
	require.NotNil(t, team)
	assert.Equal(t, model.SlotOpen, team.Members[1].Type)
}

func TestRegistrationHandler_RemoveTeam_ForbiddenForNonAdmin(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 1, 4)
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/teams", "user:a",
		model.RegisterTeamRequest{Members: []model.TeamMember{{Type: model.SlotUser}}})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Data model.JoinResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, server, http.MethodDelete, "/v1/events/"+event.ID+"/teams/"+created.Data.TeamID, "user:b", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, server, http.MethodDelete, "/v1/events/"+event.ID+"/teams/"+created.Data.TeamID, "user:owner", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRegistrationHandler_InviteUser_RequiresUserID(t *testing.T) {
	repo := newMemEventRepo()
	event := seedHandlerEvent(repo, 1, 4)
	server := newRegistrationServer(repo)

	rr := doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/invites", "user:owner",
		model.InviteRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, http.MethodPost, "/v1/events/"+event.ID+"/invites", "user:owner",
		model.InviteRequest{UserID: "user:friend"})
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, repo.events[event.ID].IsInvited("user:friend"))
}
