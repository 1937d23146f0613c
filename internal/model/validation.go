package model

import (
	"fmt"
	"net/mail"
	"strings"
)

// Validate checks the create payload and returns one FieldError per
// violation. An empty slice means the request is well formed.
func (r *CreateEventRequest) Validate() []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(r.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > MaxEventTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxEventTitleLength)})
	}

	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", MaxEventDescriptionLength)})
	}
	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errs = append(errs, FieldError{Field: "location", Message: fmt.Sprintf("location must be at most %d characters", MaxEventLocationLength)})
	}

	if r.Date.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	}
	if r.EndTime.IsZero() {
		errs = append(errs, FieldError{Field: "end_time", Message: "end_time is required"})
	} else if !r.Date.IsZero() && !r.EndTime.After(r.Date) {
		errs = append(errs, FieldError{Field: "end_time", Message: "end_time must be after date"})
	}

	if r.TeamSize < 1 {
		errs = append(errs, FieldError{Field: "team_size", Message: "team_size must be at least 1"})
	}
	if r.MaxTeams < 1 {
		errs = append(errs, FieldError{Field: "max_teams", Message: "max_teams must be at least 1"})
	}

	if !validVisibility(r.Visibility) {
		errs = append(errs, FieldError{Field: "visibility", Message: "visibility must be public, code or private"})
	}
	if !validJoinType(r.JoinType) {
		errs = append(errs, FieldError{Field: "join_type", Message: "join_type must be open or invite_only"})
	}

	return errs
}

// Validate checks only the fields present in the patch. End time
// ordering is checked against current event state in the service.
// Shrinking max_teams is always accepted; it reshapes the
// joined/waitlisted split rather than rejecting the patch.
func (r *UpdateEventRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title cannot be empty"})
		} else if len(title) > MaxEventTitleLength {
			errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxEventTitleLength)})
		}
	}
	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", MaxEventDescriptionLength)})
	}
	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errs = append(errs, FieldError{Field: "location", Message: fmt.Sprintf("location must be at most %d characters", MaxEventLocationLength)})
	}
	if r.MaxTeams != nil && *r.MaxTeams < 1 {
		errs = append(errs, FieldError{Field: "max_teams", Message: "max_teams must be at least 1"})
	}
	if r.Visibility != nil && !validVisibility(*r.Visibility) {
		errs = append(errs, FieldError{Field: "visibility", Message: "visibility must be public, code or private"})
	}
	if r.JoinType != nil && !validJoinType(*r.JoinType) {
		errs = append(errs, FieldError{Field: "join_type", Message: "join_type must be open or invite_only"})
	}

	return errs
}

// Validate checks the signup payload.
func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "a valid email address is required"})
	}
	if len(r.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)})
	}
	name := strings.TrimSpace(r.DisplayName)
	if name == "" {
		errs = append(errs, FieldError{Field: "display_name", Message: "display_name is required"})
	} else if len(name) > MaxDisplayNameLength {
		errs = append(errs, FieldError{Field: "display_name", Message: fmt.Sprintf("display_name must be at most %d characters", MaxDisplayNameLength)})
	}

	return errs
}

// Validate checks the login payload.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func validVisibility(v EventVisibility) bool {
	switch v {
	case VisibilityPublic, VisibilityCode, VisibilityPrivate:
		return true
	}
	return false
}

func validJoinType(j JoinType) bool {
	switch j {
	case JoinOpen, JoinInviteOnly:
		return true
	}
	return false
}
