package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/pkg/eventcode"
)

// codeAttempts bounds unique-code generation at event creation.
const codeAttempts = 10

// EventRepository defines the event aggregate storage interface
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, eventID string) (*model.Event, error)
	GetByCode(ctx context.Context, code string) (*model.Event, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	UpdateAtomic(ctx context.Context, eventID string, fn func(*model.Event) error) (*model.Event, error)
	Delete(ctx context.Context, eventID string) error
	ListByOwner(ctx context.Context, userID string) ([]*model.Event, error)
	ListByAdmin(ctx context.Context, userID string) ([]*model.Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]*model.Event, error)
	ListByInvited(ctx context.Context, userID string) ([]*model.Event, error)
	ListByDeclined(ctx context.Context, userID string) ([]*model.Event, error)
}

// EventService handles event lifecycle and read-side queries.
type EventService struct {
	repo  EventRepository
	users UserRepository
}

// NewEventService creates a new event service
func NewEventService(repo EventRepository, users UserRepository) *EventService {
	return &EventService{repo: repo, users: users}
}

// Create creates a new event owned by userID. The request is assumed
// field-validated; this method assigns a unique public code, retrying
// against active events up to codeAttempts times.
func (s *EventService) Create(ctx context.Context, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Code:          code,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Location:      req.Location,
		Date:          req.Date,
		EndTime:       req.EndTime,
		TeamSize:      req.TeamSize,
		MaxTeams:      req.MaxTeams,
		Visibility:    req.Visibility,
		JoinType:      req.JoinType,
		Status:        model.EventStatusActive,
		OwnerID:       userID,
		Registrations: []model.TeamRegistration{},
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := eventcode.Generate()
		if err != nil {
			return "", err
		}
		inUse, err := s.repo.CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

// Get retrieves an event for the given viewer, enforcing visibility.
// Private events are indistinguishable from missing ones to outsiders.
func (s *EventService) Get(ctx context.Context, viewerID, eventID string) (*model.EventWithStatus, error) {
	event, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return s.viewFor(event, viewerID)
}

// GetByCode retrieves an active event by its public code. Code-visible
// events exist precisely so the code grants access, so only fully
// private events stay hidden here.
func (s *EventService) GetByCode(ctx context.Context, viewerID, code string) (*model.EventWithStatus, error) {
	if !eventcode.IsValid(code) {
		return nil, ErrEventNotFound
	}
	event, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return s.viewFor(event, viewerID)
}

func (s *EventService) viewFor(event *model.Event, viewerID string) (*model.EventWithStatus, error) {
	status := event.UserStatus(viewerID)
	if event.Visibility == model.VisibilityPrivate && status.Role == model.UserRoleNone {
		return nil, ErrEventNotFound
	}
	return &model.EventWithStatus{Event: *event, UserStatus: status}, nil
}

// Update edits event metadata. Owner or admin only. Changing MaxTeams
// reshapes the joined/waitlist partition implicitly since both are
// derived from registration order.
func (s *EventService) Update(ctx context.Context, actorID, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}

		if req.Title != nil {
			e.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			e.Description = req.Description
		}
		if req.Location != nil {
			e.Location = req.Location
		}
		if req.Date != nil {
			e.Date = *req.Date
		}
		if req.EndTime != nil {
			e.EndTime = *req.EndTime
		}
		if !e.EndTime.After(e.Date) {
			return ErrEventTimeOrder
		}
		if req.MaxTeams != nil {
			e.MaxTeams = *req.MaxTeams
		}
		if req.Visibility != nil {
			e.Visibility = *req.Visibility
		}
		if req.JoinType != nil {
			e.JoinType = *req.JoinType
		}
		return nil
	})
	return event, s.mapNotFound(err)
}

// Cancel marks the event canceled. Owner or admin only. The event stays
// readable but rejects further roster changes, and its code is freed
// for reuse.
func (s *EventService) Cancel(ctx context.Context, actorID, eventID string) (*model.Event, error) {
	event, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}
		e.Status = model.EventStatusCanceled
		return nil
	})
	return event, s.mapNotFound(err)
}

// Delete removes the event outright, registrations included. Owner or
// admin only.
func (s *EventService) Delete(ctx context.Context, actorID, eventID string) error {
	event, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	if !event.IsAdmin(actorID) {
		return ErrNotEventAdmin
	}
	return s.repo.Delete(ctx, eventID)
}

// ListOwned returns events owned by the user.
func (s *EventService) ListOwned(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// ListAdministered returns events the user helps run but does not own.
func (s *EventService) ListAdministered(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.repo.ListByAdmin(ctx, userID)
}

// ListJoined returns events the user occupies a slot in, joined or
// waitlisted.
func (s *EventService) ListJoined(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

// ListInvited returns events with a pending invitation for the user.
func (s *EventService) ListInvited(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.repo.ListByInvited(ctx, userID)
}

// ListDeclined returns events the user has declined.
func (s *EventService) ListDeclined(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.repo.ListByDeclined(ctx, userID)
}

// Attendees resolves the people view of an event: every team with its
// derived state plus invited and declined profiles. A user record that
// cannot be resolved degrades to a placeholder profile instead of
// failing the read.
func (s *EventService) Attendees(ctx context.Context, viewerID, eventID string) (*model.EventAttendees, error) {
	view, err := s.Get(ctx, viewerID, eventID)
	if err != nil {
		return nil, err
	}
	event := &view.Event

	profiles, err := s.resolveProfiles(ctx, event)
	if err != nil {
		return nil, err
	}

	attendees := &model.EventAttendees{
		EventID: event.ID,
		Teams:   make([]model.TeamDetail, 0, len(event.Registrations)),
	}

	for i, reg := range event.Registrations {
		detail := model.TeamDetail{
			Registration:     reg,
			Status:           event.StateAt(i),
			WaitlistPosition: event.WaitlistPosition(i),
		}
		// Refresh user slots with current directory data; the stored
		// member snapshot is only a fallback.
		for j, member := range detail.Registration.Members {
			if member.Type != model.SlotUser {
				continue
			}
			if p, ok := profiles[member.UserID]; ok {
				detail.Registration.Members[j].DisplayName = p.DisplayName
				detail.Registration.Members[j].PhotoURL = p.PhotoURL
			}
		}
		attendees.Teams = append(attendees.Teams, detail)
	}

	for _, id := range event.InvitedUserIDs {
		attendees.Invited = append(attendees.Invited, profileOrPlaceholder(profiles, id))
	}
	for _, id := range event.DeclinedUserIDs {
		attendees.Declined = append(attendees.Declined, profileOrPlaceholder(profiles, id))
	}

	return attendees, nil
}

func (s *EventService) resolveProfiles(ctx context.Context, event *model.Event) (map[string]model.UserProfile, error) {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, reg := range event.Registrations {
		for _, member := range reg.Members {
			if member.Type == model.SlotUser {
				add(member.UserID)
			}
		}
	}
	for _, id := range event.InvitedUserIDs {
		add(id)
	}
	for _, id := range event.DeclinedUserIDs {
		add(id)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]model.UserProfile, len(users))
	for _, user := range users {
		profiles[user.ID] = user.Profile()
	}
	return profiles, nil
}

func profileOrPlaceholder(profiles map[string]model.UserProfile, id string) model.UserProfile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return model.PlaceholderProfile(id)
}

func (s *EventService) mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}
