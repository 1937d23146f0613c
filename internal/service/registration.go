package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
)

// RegistrationService implements the roster state machine. Every
// mutation runs inside EventRepository.UpdateAtomic, so validation and
// write happen against the same aggregate state: a team that was
// joined when checked cannot silently land on the waitlist.
//
// Waitlist promotion is implicit. Removing a registration shifts every
// later one forward, and the joined/waitlisted split is re-derived from
// position alone.
type RegistrationService struct {
	repo EventRepository
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(repo EventRepository) *RegistrationService {
	return &RegistrationService{repo: repo}
}

// RegisterTeam appends a new registration for the acting user. The
// actor always occupies slot 0 as captain; remaining request slots must
// be declared guest or open. Registering consumes a pending invitation
// and clears a prior decline.
func (s *RegistrationService) RegisterTeam(ctx context.Context, actor model.UserProfile, eventID string, req *model.RegisterTeamRequest) (*model.JoinResult, error) {
	var result model.JoinResult

	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if e.Status != model.EventStatusActive {
			return ErrEventCanceled
		}
		if e.IsUserInEvent(actor.ID) {
			return ErrAlreadyRegistered
		}
		if e.JoinType == model.JoinInviteOnly && !e.IsInvited(actor.ID) && !e.IsAdmin(actor.ID) {
			return ErrInviteRequired
		}
		if len(req.Members) != e.TeamSize {
			return ErrWrongTeamSize
		}

		members := make([]model.TeamMember, e.TeamSize)
		members[0] = model.UserSlot(actor.ID, actor.DisplayName, actor.PhotoURL)
		for i := 1; i < e.TeamSize; i++ {
			switch req.Members[i].Type {
			case model.SlotGuest:
				members[i] = model.GuestSlot(req.Members[i].DisplayName)
			case model.SlotOpen:
				members[i] = model.OpenSlot()
			default:
				// Companions join on their own; a captain cannot
				// register another account.
				return ErrInvalidSlot
			}
		}

		reg := model.TeamRegistration{
			ID:        uuid.NewString(),
			CreatedBy: actor.ID,
			CreatedOn: time.Now().UTC(),
			Members:   members,
		}
		e.Registrations = append(e.Registrations, reg)
		e.InvitedUserIDs = removeID(e.InvitedUserIDs, actor.ID)
		e.DeclinedUserIDs = removeID(e.DeclinedUserIDs, actor.ID)

		result = model.JoinResult{
			Status: e.StateAt(len(e.Registrations) - 1),
			TeamID: reg.ID,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return &result, nil
}

// LeaveTeam removes the acting user from their registration. A leaving
// captain takes the whole registration with them, promoting waitlisted
// teams behind it; a leaving member just opens their slot.
func (s *RegistrationService) LeaveTeam(ctx context.Context, userID, eventID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		return leaveRoster(e, userID)
	})
	return s.mapNotFound(err)
}

// leaveRoster applies leave semantics in place. Shared by LeaveTeam and
// DeclineEvent.
func leaveRoster(e *model.Event, userID string) error {
	team := e.UserTeam(userID)
	if team == nil {
		return ErrNotRegistered
	}

	if team.IsCaptain(userID) {
		_, idx := e.FindRegistration(team.ID)
		e.Registrations = append(e.Registrations[:idx], e.Registrations[idx+1:]...)
		return nil
	}

	team.Members[team.MemberIndex(userID)] = model.OpenSlot()
	return nil
}

// DeclineEvent records that the user is not coming: any registration is
// released with LeaveTeam semantics, a pending invitation is consumed,
// and the user lands in the declined set. Idempotent for users with
// nothing to release.
func (s *RegistrationService) DeclineEvent(ctx context.Context, userID, eventID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if err := leaveRoster(e, userID); err != nil && !errors.Is(err, ErrNotRegistered) {
			return err
		}
		e.InvitedUserIDs = removeID(e.InvitedUserIDs, userID)
		if !e.HasDeclined(userID) {
			e.DeclinedUserIDs = append(e.DeclinedUserIDs, userID)
		}
		return nil
	})
	return s.mapNotFound(err)
}

// ClaimSlot converts an open or guest slot of an existing team into the
// acting user's slot. A claimed guest slot discards the guest name. The
// result status reflects the owning team's region, so claiming into a
// waitlisted team reports waitlisted.
func (s *RegistrationService) ClaimSlot(ctx context.Context, actor model.UserProfile, eventID, teamID string, memberIndex int) (*model.JoinResult, error) {
	var result model.JoinResult

	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if e.Status != model.EventStatusActive {
			return ErrEventCanceled
		}
		if e.IsUserInEvent(actor.ID) {
			return ErrAlreadyRegistered
		}

		team, idx := e.FindRegistration(teamID)
		if team == nil {
			return ErrTeamNotFound
		}
		if memberIndex < 0 || memberIndex >= len(team.Members) {
			return ErrInvalidSlot
		}
		if !team.Members[memberIndex].IsClaimable() {
			return ErrSlotNotClaimable
		}

		team.Members[memberIndex] = model.UserSlot(actor.ID, actor.DisplayName, actor.PhotoURL)
		e.InvitedUserIDs = removeID(e.InvitedUserIDs, actor.ID)
		e.DeclinedUserIDs = removeID(e.DeclinedUserIDs, actor.ID)

		result = model.JoinResult{Status: e.StateAt(idx), TeamID: team.ID}
		return nil
	})
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return &result, nil
}

// UpdateTeamMember lets the captain reshape a companion slot between
// guest and open. The captain's own slot (index 0) and user-occupied
// slots are off limits.
func (s *RegistrationService) UpdateTeamMember(ctx context.Context, userID, eventID, teamID string, req *model.UpdateTeamMemberRequest) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		team, _ := e.FindRegistration(teamID)
		if team == nil {
			return ErrTeamNotFound
		}
		if !team.IsCaptain(userID) {
			return ErrNotCaptain
		}
		if req.MemberIndex <= 0 || req.MemberIndex >= len(team.Members) {
			return ErrInvalidSlot
		}
		if team.Members[req.MemberIndex].Type == model.SlotUser {
			return ErrInvalidSlot
		}

		switch req.Member.Type {
		case model.SlotGuest:
			team.Members[req.MemberIndex] = model.GuestSlot(req.Member.DisplayName)
		case model.SlotOpen:
			team.Members[req.MemberIndex] = model.OpenSlot()
		default:
			return ErrInvalidSlot
		}
		return nil
	})
	return s.mapNotFound(err)
}

// RemoveTeam drops a whole registration. Owner or admin only; later
// registrations shift forward and waitlisted teams promote implicitly.
func (s *RegistrationService) RemoveTeam(ctx context.Context, actorID, eventID, teamID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}
		_, idx := e.FindRegistration(teamID)
		if idx < 0 {
			return ErrTeamNotFound
		}
		e.Registrations = append(e.Registrations[:idx], e.Registrations[idx+1:]...)
		return nil
	})
	return s.mapNotFound(err)
}

// AddGuestTeam appends an all-guest registration on behalf of people
// without accounts. Owner or admin only. Names are trimmed and blank
// ones fall back to the default guest name.
func (s *RegistrationService) AddGuestTeam(ctx context.Context, actorID, eventID string, req *model.AddGuestTeamRequest) (*model.JoinResult, error) {
	var result model.JoinResult

	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if e.Status != model.EventStatusActive {
			return ErrEventCanceled
		}
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}
		if len(req.GuestNames) != e.TeamSize {
			return ErrWrongTeamSize
		}

		members := make([]model.TeamMember, e.TeamSize)
		for i, name := range req.GuestNames {
			members[i] = model.GuestSlot(name)
		}

		reg := model.TeamRegistration{
			ID:        uuid.NewString(),
			CreatedBy: actorID,
			CreatedOn: time.Now().UTC(),
			Members:   members,
		}
		e.Registrations = append(e.Registrations, reg)

		result = model.JoinResult{
			Status: e.StateAt(len(e.Registrations) - 1),
			TeamID: reg.ID,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return &result, nil
}

// InviteUser adds a pending invitation. Owner or admin only. A fresh
// invitation supersedes a prior decline; inviting a user who is already
// registered or already invited is a no-op.
func (s *RegistrationService) InviteUser(ctx context.Context, actorID, eventID, targetID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}
		if e.IsUserInEvent(targetID) || e.IsInvited(targetID) {
			return nil
		}
		e.DeclinedUserIDs = removeID(e.DeclinedUserIDs, targetID)
		e.InvitedUserIDs = append(e.InvitedUserIDs, targetID)
		return nil
	})
	return s.mapNotFound(err)
}

// RemoveInvitation withdraws a pending invitation. Owner or admin only,
// idempotent.
func (s *RegistrationService) RemoveInvitation(ctx context.Context, actorID, eventID, targetID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if !e.IsAdmin(actorID) {
			return ErrNotEventAdmin
		}
		e.InvitedUserIDs = removeID(e.InvitedUserIDs, targetID)
		return nil
	})
	return s.mapNotFound(err)
}

// DeclineInvitation lets an invited user turn the invitation down
// without ever having registered. Idempotent.
func (s *RegistrationService) DeclineInvitation(ctx context.Context, userID, eventID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		e.InvitedUserIDs = removeID(e.InvitedUserIDs, userID)
		if !e.HasDeclined(userID) {
			e.DeclinedUserIDs = append(e.DeclinedUserIDs, userID)
		}
		return nil
	})
	return s.mapNotFound(err)
}

// AddAdmin grants event admin to a user. Owner only; the owner is never
// listed since their powers are implicit. Idempotent.
func (s *RegistrationService) AddAdmin(ctx context.Context, actorID, eventID, targetID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if actorID != e.OwnerID {
			return ErrNotEventOwner
		}
		if targetID == e.OwnerID || e.IsAdmin(targetID) {
			return nil
		}
		e.AdminIDs = append(e.AdminIDs, targetID)
		return nil
	})
	return s.mapNotFound(err)
}

// RemoveAdmin strips event admin from a user. Owner only, idempotent.
func (s *RegistrationService) RemoveAdmin(ctx context.Context, actorID, eventID, targetID string) error {
	_, err := s.repo.UpdateAtomic(ctx, eventID, func(e *model.Event) error {
		if actorID != e.OwnerID {
			return ErrNotEventOwner
		}
		e.AdminIDs = removeID(e.AdminIDs, targetID)
		return nil
	})
	return s.mapNotFound(err)
}

func (s *RegistrationService) mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
