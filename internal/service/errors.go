package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Event Errors =====
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrEventCanceled  = errors.New("event is canceled")
	ErrNotEventAdmin  = errors.New("not authorized to manage this event")
	ErrNotEventOwner  = errors.New("only the event owner may do this")
	ErrCodeGeneration = errors.New("failed to generate unique event code")
	ErrEventTimeOrder = errors.New("end_time must be after date")
)

// ===== Registration Errors =====
var (
	ErrWrongTeamSize     = errors.New("team does not match the event's team size")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrInviteRequired    = errors.New("event requires an invitation to join")
	ErrNotRegistered     = errors.New("user is not registered for this event")
	ErrTeamNotFound      = errors.New("team not found")
	ErrInvalidSlot       = errors.New("invalid team slot")
	ErrSlotNotClaimable  = errors.New("slot is not claimable")
	ErrNotCaptain        = errors.New("only the team captain may do this")
)

// ===== User Directory Errors =====
var (
	ErrSearchQueryTooShort = errors.New("search query too short")
)
