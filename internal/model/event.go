package model

import "time"

// Event is the aggregate root: the event document together with its
// ordered team registrations and invitation state. All capacity and
// waitlist information is derived from the order of Registrations, never
// stored separately.
type Event struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"` // short public identifier, unique among active events
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`

	Date    time.Time `json:"date"`
	EndTime time.Time `json:"end_time"`

	// TeamSize is the number of member slots per registration; MaxTeams is
	// how many registrations count as joined before overflow waitlists.
	TeamSize int `json:"team_size"`
	MaxTeams int `json:"max_teams"`

	Visibility EventVisibility `json:"visibility"`
	JoinType   JoinType        `json:"join_type"`
	Status     EventStatus     `json:"status"`

	OwnerID  string   `json:"owner_id"`
	AdminIDs []string `json:"admin_ids,omitempty"`

	// Registrations is ordered; index position against MaxTeams decides
	// joined vs waitlisted.
	Registrations []TeamRegistration `json:"registrations"`

	InvitedUserIDs  []string `json:"invited_user_ids,omitempty"`
	DeclinedUserIDs []string `json:"declined_user_ids,omitempty"`

	// Revision is bumped on every mutating write and checked by the
	// repository's atomic update. Not part of the API surface.
	Revision int `json:"-"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// EventVisibility controls how an event can be discovered.
type EventVisibility string

const (
	VisibilityPublic  EventVisibility = "public"  // listed publicly
	VisibilityCode    EventVisibility = "code"    // reachable via event code only
	VisibilityPrivate EventVisibility = "private" // invited users only
)

// JoinType controls who may register.
type JoinType string

const (
	JoinOpen       JoinType = "open"
	JoinInviteOnly JoinType = "invite_only"
)

// EventStatus is the event lifecycle state. Canceled is terminal;
// deleted events are removed outright.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusCanceled EventStatus = "canceled"
)

// RegistrationState is the derived joined/waitlisted partition of a
// registration, decided purely by its index against MaxTeams.
type RegistrationState string

const (
	RegistrationJoined     RegistrationState = "joined"
	RegistrationWaitlisted RegistrationState = "waitlisted"
)

// UserEventRole classifies a user's relationship to an event.
type UserEventRole string

const (
	UserRoleOwner      UserEventRole = "owner"
	UserRoleEventAdmin UserEventRole = "admin"
	UserRoleGoing      UserEventRole = "going"
	UserRoleWaitlisted UserEventRole = "waitlisted"
	UserRoleInvited    UserEventRole = "invited"
	UserRoleDeclined   UserEventRole = "declined"
	UserRoleNone       UserEventRole = "none"
)

// UserEventStatus is a user's classification plus, for owners/admins who
// are also personally registered, their registration state.
type UserEventStatus struct {
	Role               UserEventRole      `json:"role"`
	RegistrationStatus *RegistrationState `json:"registration_status,omitempty"`
}

// Constraints
const (
	MaxEventTitleLength       = 100
	MaxEventDescriptionLength = 2000
	MaxEventLocationLength    = 200
)

// ===== Derived-state calculators =====
//
// These are pure reads over the aggregate and safe to call concurrently.

// TotalCapacity is the number of member slots across all joined teams.
func (e *Event) TotalCapacity() int {
	return e.TeamSize * e.MaxTeams
}

// JoinedTeams returns the registrations occupying the joined region
// (index < MaxTeams).
func (e *Event) JoinedTeams() []TeamRegistration {
	if len(e.Registrations) <= e.MaxTeams {
		return e.Registrations
	}
	return e.Registrations[:e.MaxTeams]
}

// WaitlistedTeams returns the registrations past the joined region.
func (e *Event) WaitlistedTeams() []TeamRegistration {
	if len(e.Registrations) <= e.MaxTeams {
		return nil
	}
	return e.Registrations[e.MaxTeams:]
}

// JoinedMemberCount counts people actually going: joined registrations
// for solo events, user-occupied slots within joined teams otherwise.
func (e *Event) JoinedMemberCount() int {
	joined := e.JoinedTeams()
	if e.TeamSize == 1 {
		return len(joined)
	}
	count := 0
	for _, reg := range joined {
		for _, m := range reg.Members {
			if m.Type == SlotUser {
				count++
			}
		}
	}
	return count
}

// ClaimableSpotsCount counts open and guest slots within the joined
// region only. Waitlisted slots are excluded so claiming can never jump
// the queue.
func (e *Event) ClaimableSpotsCount() int {
	count := 0
	for _, reg := range e.JoinedTeams() {
		for _, m := range reg.Members {
			if m.IsClaimable() {
				count++
			}
		}
	}
	return count
}

// IsUserInEvent reports whether userID occupies a user slot in any
// registration.
func (e *Event) IsUserInEvent(userID string) bool {
	return e.UserTeam(userID) != nil
}

// UserTeam returns the registration containing userID, or nil.
func (e *Event) UserTeam(userID string) *TeamRegistration {
	for i := range e.Registrations {
		if e.Registrations[i].HasUser(userID) {
			return &e.Registrations[i]
		}
	}
	return nil
}

// FindRegistration returns the registration with the given id and its
// index, or (nil, -1).
func (e *Event) FindRegistration(teamID string) (*TeamRegistration, int) {
	for i := range e.Registrations {
		if e.Registrations[i].ID == teamID {
			return &e.Registrations[i], i
		}
	}
	return nil, -1
}

// IsAdmin reports whether userID is the owner or a listed admin. The
// owner carries admin powers implicitly and never appears in AdminIDs.
func (e *Event) IsAdmin(userID string) bool {
	if userID == e.OwnerID {
		return true
	}
	return containsID(e.AdminIDs, userID)
}

// IsInvited reports whether userID has a pending invitation.
func (e *Event) IsInvited(userID string) bool {
	return containsID(e.InvitedUserIDs, userID)
}

// HasDeclined reports whether userID has declined the event.
func (e *Event) HasDeclined(userID string) bool {
	return containsID(e.DeclinedUserIDs, userID)
}

// StateAt returns the registration state implied by an index in the
// registrations sequence.
func (e *Event) StateAt(index int) RegistrationState {
	if index < e.MaxTeams {
		return RegistrationJoined
	}
	return RegistrationWaitlisted
}

// WaitlistPosition returns the 1-based waitlist position of the
// registration at index, or 0 if it is joined.
func (e *Event) WaitlistPosition(index int) int {
	if index < e.MaxTeams {
		return 0
	}
	return index - e.MaxTeams + 1
}

// UserStatus classifies userID's relationship to the event. First match
// wins: owner > admin > going > waitlisted > invited > declined > none.
// Owners and admins who are also personally registered carry their
// registration state in RegistrationStatus.
func (e *Event) UserStatus(userID string) UserEventStatus {
	var regStatus *RegistrationState
	if team := e.UserTeam(userID); team != nil {
		_, idx := e.FindRegistration(team.ID)
		state := e.StateAt(idx)
		regStatus = &state
	}

	switch {
	case userID == e.OwnerID:
		return UserEventStatus{Role: UserRoleOwner, RegistrationStatus: regStatus}
	case e.IsAdmin(userID):
		return UserEventStatus{Role: UserRoleEventAdmin, RegistrationStatus: regStatus}
	case regStatus != nil && *regStatus == RegistrationJoined:
		return UserEventStatus{Role: UserRoleGoing, RegistrationStatus: regStatus}
	case regStatus != nil:
		return UserEventStatus{Role: UserRoleWaitlisted, RegistrationStatus: regStatus}
	case e.IsInvited(userID):
		return UserEventStatus{Role: UserRoleInvited}
	case e.HasDeclined(userID):
		return UserEventStatus{Role: UserRoleDeclined}
	default:
		return UserEventStatus{Role: UserRoleNone}
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ===== Request/response types =====

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Date        time.Time       `json:"date"`
	EndTime     time.Time       `json:"end_time"`
	TeamSize    int             `json:"team_size"`
	MaxTeams    int             `json:"max_teams"`
	Visibility  EventVisibility `json:"visibility"`
	JoinType    JoinType        `json:"join_type"`
}

// UpdateEventRequest is the payload for editing event metadata.
// Capacity-shape edits are re-validated against the current roster.
type UpdateEventRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	MaxTeams    *int             `json:"max_teams,omitempty"`
	Visibility  *EventVisibility `json:"visibility,omitempty"`
	JoinType    *JoinType        `json:"join_type,omitempty"`
}

// RegisterTeamRequest is the payload for registering a team. Members
// must have exactly TeamSize entries; slot 0 is replaced with the
// caller's own user slot, the rest must be declared guest or open.
type RegisterTeamRequest struct {
	Members []TeamMember `json:"members"`
}

// ClaimSlotRequest identifies the slot being claimed.
type ClaimSlotRequest struct {
	MemberIndex int `json:"member_index"`
}

// UpdateTeamMemberRequest is a captain's edit of a non-captain slot.
type UpdateTeamMemberRequest struct {
	MemberIndex int        `json:"member_index"`
	Member      TeamMember `json:"member"`
}

// AddGuestTeamRequest is the payload for an admin-created guest team.
type AddGuestTeamRequest struct {
	GuestNames []string `json:"guest_names"`
}

// InviteRequest identifies the user being invited or uninvited.
type InviteRequest struct {
	UserID string `json:"user_id"`
}

// AdminRequest identifies the user being granted or stripped of admin.
type AdminRequest struct {
	UserID string `json:"user_id"`
}

// JoinResult is the outcome of an operation that adds or reshapes a
// registration.
type JoinResult struct {
	Status RegistrationState `json:"status"`
	TeamID string            `json:"team_id"`
}

// EventWithStatus pairs an event with the requesting user's
// classification, for list and detail responses.
type EventWithStatus struct {
	Event      Event           `json:"event"`
	UserStatus UserEventStatus `json:"user_status"`
}

// EventAttendees is the resolved people view of an event.
type EventAttendees struct {
	EventID  string        `json:"event_id"`
	Teams    []TeamDetail  `json:"teams"`
	Invited  []UserProfile `json:"invited,omitempty"`
	Declined []UserProfile `json:"declined,omitempty"`
}

// TeamDetail is a registration annotated with its derived state.
type TeamDetail struct {
	Registration     TeamRegistration  `json:"registration"`
	Status           RegistrationState `json:"status"`
	WaitlistPosition int               `json:"waitlist_position,omitempty"`
}
