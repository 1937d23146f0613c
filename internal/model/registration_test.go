package model

import "testing"

// ============================================================================
// Slot Constructor Tests
// ============================================================================

func TestGuestSlot_TrimsAndDefaultsName(t *testing.T) {
	t.Parallel()

	if got := GuestSlot("  Alex  ").DisplayName; got != "Alex" {
		t.Errorf("expected trimmed name 'Alex', got %q", got)
	}
	if got := GuestSlot("   ").DisplayName; got != DefaultGuestName {
		t.Errorf("expected default name %q for blank input, got %q", DefaultGuestName, got)
	}
}

func TestSlot_IsClaimable(t *testing.T) {
	t.Parallel()

	if UserSlot("user:1", "A", "").IsClaimable() {
		t.Error("user slot should not be claimable")
	}
	if !GuestSlot("Pat").IsClaimable() {
		t.Error("guest slot should be claimable")
	}
	if !OpenSlot().IsClaimable() {
		t.Error("open slot should be claimable")
	}
}

// ============================================================================
// TeamMember.Validate Tests
// ============================================================================

func TestTeamMember_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		member  TeamMember
		wantErr bool
	}{
		{"valid user", UserSlot("user:1", "A", ""), false},
		{"valid guest", GuestSlot("Pat"), false},
		{"valid open", OpenSlot(), false},
		{"user without id", TeamMember{Type: SlotUser}, true},
		{"guest without name", TeamMember{Type: SlotGuest}, true},
		{"guest with user id", TeamMember{Type: SlotGuest, UserID: "user:1", DisplayName: "Pat"}, true},
		{"open with name", TeamMember{Type: SlotOpen, DisplayName: "Pat"}, true},
		{"unknown type", TeamMember{Type: "robot"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

// ============================================================================
// TeamRegistration Tests
// ============================================================================

func TestTeamRegistration_MemberIndex(t *testing.T) {
	t.Parallel()
	reg := TeamRegistration{
		ID:        "team:1",
		CreatedBy: "user:captain",
		Members: []TeamMember{
			UserSlot("user:captain", "Captain", ""),
			GuestSlot("Pat"),
			UserSlot("user:mate", "Mate", ""),
			OpenSlot(),
		},
	}

	if got := reg.MemberIndex("user:mate"); got != 2 {
		t.Errorf("expected index 2, got %d", got)
	}
	if got := reg.MemberIndex("user:absent"); got != -1 {
		t.Errorf("expected -1 for absent user, got %d", got)
	}
	if !reg.HasUser("user:captain") {
		t.Error("expected captain to be a member")
	}
	if !reg.IsCaptain("user:captain") {
		t.Error("expected IsCaptain true for creator")
	}
	if reg.IsCaptain("user:mate") {
		t.Error("expected IsCaptain false for non-creator")
	}
}

func TestTeamRegistration_MemberIndex_IgnoresGuestNames(t *testing.T) {
	t.Parallel()
	// A guest named like a user ID must never match a user lookup
	reg := TeamRegistration{
		Members: []TeamMember{GuestSlot("user:sneaky")},
	}

	if got := reg.MemberIndex("user:sneaky"); got != -1 {
		t.Errorf("guest slot matched user lookup at index %d", got)
	}
}
