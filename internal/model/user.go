package model

import "time"

// User is an account record. PasswordHash is storage-only and never
// leaves the service boundary.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

// UserProfile is the public view of a user, used by the attendee and
// directory endpoints.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// PlaceholderDisplayName is substituted when a referenced user record
// cannot be resolved. Reads degrade instead of failing.
const PlaceholderDisplayName = "Former member"

// PlaceholderProfile returns a stand-in profile for an unresolvable
// user id.
func PlaceholderProfile(id string) UserProfile {
	return UserProfile{ID: id, DisplayName: PlaceholderDisplayName}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the signed token and the account it belongs to.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

const (
	MinPasswordLength        = 8
	MaxDisplayNameLength     = 80
	MaxUserSearchResults     = 20
	MinUserSearchQueryLength = 2
)
