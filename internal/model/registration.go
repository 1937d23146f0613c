package model

import (
	"errors"
	"strings"
	"time"
)

// SlotType discriminates the three kinds of roster slot.
type SlotType string

const (
	// SlotUser is a slot occupied by a registered account.
	SlotUser SlotType = "user"
	// SlotGuest is a named placeholder for a person without an account.
	SlotGuest SlotType = "guest"
	// SlotOpen is an unclaimed, capacity-holding placeholder.
	SlotOpen SlotType = "open"
)

// DefaultGuestName is used when a guest slot is created with a blank name.
const DefaultGuestName = "Guest"

// TeamMember is one slot in a team registration. Exactly the fields for
// its Type are set; Validate rejects the rest.
type TeamMember struct {
	Type        SlotType `json:"type"`
	UserID      string   `json:"user_id,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
}

// UserSlot returns a slot occupied by a registered account.
func UserSlot(userID, displayName, photoURL string) TeamMember {
	return TeamMember{
		Type:        SlotUser,
		UserID:      userID,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}
}

// GuestSlot returns a named placeholder slot. The name is trimmed and
// falls back to DefaultGuestName when blank.
func GuestSlot(displayName string) TeamMember {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = DefaultGuestName
	}
	return TeamMember{Type: SlotGuest, DisplayName: name}
}

// OpenSlot returns an unclaimed slot.
func OpenSlot() TeamMember {
	return TeamMember{Type: SlotOpen}
}

// IsClaimable reports whether the slot can be taken over by a user.
// Open and guest slots are claimable; claiming a guest slot discards the
// guest name.
func (m TeamMember) IsClaimable() bool {
	return m.Type == SlotOpen || m.Type == SlotGuest
}

var errInvalidSlotShape = errors.New("invalid team member slot")

// Validate checks that the slot's fields are consistent with its type.
func (m TeamMember) Validate() error {
	switch m.Type {
	case SlotUser:
		if m.UserID == "" {
			return errInvalidSlotShape
		}
	case SlotGuest:
		if m.UserID != "" || strings.TrimSpace(m.DisplayName) == "" {
			return errInvalidSlotShape
		}
	case SlotOpen:
		if m.UserID != "" || m.DisplayName != "" {
			return errInvalidSlotShape
		}
	default:
		return errInvalidSlotShape
	}
	return nil
}

// TeamRegistration is one roster entry of an event. Members has exactly
// Event.TeamSize slots at all times; slot 0 is the captain context for
// user-created registrations.
type TeamRegistration struct {
	ID        string       `json:"id"`
	CreatedBy string       `json:"created_by"`
	CreatedOn time.Time    `json:"created_on"`
	Members   []TeamMember `json:"members"`
}

// IsCaptain reports whether userID created this registration.
func (r *TeamRegistration) IsCaptain(userID string) bool {
	return r.CreatedBy == userID
}

// HasUser reports whether userID occupies any slot of this registration.
func (r *TeamRegistration) HasUser(userID string) bool {
	return r.MemberIndex(userID) >= 0
}

// MemberIndex returns the slot index occupied by userID, or -1.
func (r *TeamRegistration) MemberIndex(userID string) int {
	for i, m := range r.Members {
		if m.Type == SlotUser && m.UserID == userID {
			return i
		}
	}
	return -1
}
