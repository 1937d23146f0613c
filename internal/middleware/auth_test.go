package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nextdink/api/pkg/jwt"
)

// stubValidator resolves any bearer token to the configured claims, or
// fails with err when set.
type stubValidator struct {
	claims *jwt.Claims
	err    error
}

func (v *stubValidator) Validate(token string) (*jwt.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func danaValidator() *stubValidator {
	return &stubValidator{claims: &jwt.Claims{
		UserID:  "user:77",
		Email:   "dana@example.com",
		Name:    "Dana Diaz",
		Picture: "https://example.com/dana.png",
	}}
}

// identitySpy records the context values the wrapped handler saw.
type identitySpy struct {
	called bool
	userID string
	email  string
	claims *jwt.Claims
}

func (h *identitySpy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID = GetUserID(r.Context())
	h.email = GetUserEmail(r.Context())
	h.claims = GetClaims(r.Context())
	w.WriteHeader(http.StatusOK)
}

func authedRequest(authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/me/events/owned", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

// ============================================================================
// Auth
// ============================================================================

func TestAuth_ValidTokenPopulatesIdentity(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	Auth(danaValidator())(spy).ServeHTTP(rr, authedRequest("Bearer good-token"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !spy.called {
		t.Fatal("handler should have run")
	}
	if spy.userID != "user:77" {
		t.Errorf("expected user:77 in context, got %q", spy.userID)
	}
	if spy.email != "dana@example.com" {
		t.Errorf("expected email in context, got %q", spy.email)
	}
	if spy.claims == nil || spy.claims.Name != "Dana Diaz" {
		t.Errorf("expected full claims in context, got %+v", spy.claims)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	Auth(danaValidator())(spy).ServeHTTP(rr, authedRequest(""))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if spy.called {
		t.Error("handler must not run without credentials")
	}
	if got := rr.Header().Get("Content-Type"); got != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", got)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "just-a-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &identitySpy{}
			rr := httptest.NewRecorder()

			Auth(danaValidator())(spy).ServeHTTP(rr, authedRequest(tt.header))

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
			if spy.called {
				t.Error("handler must not run")
			}
		})
	}
}

func TestAuth_BearerSchemeIsCaseInsensitive(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	Auth(danaValidator())(spy).ServeHTTP(rr, authedRequest("bearer good-token"))

	if rr.Code != http.StatusOK {
		t.Errorf("expected lowercase scheme accepted, got %d", rr.Code)
	}
}

func TestAuth_RejectionDetails(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDetail string
	}{
		{"expired", jwt.ErrTokenExpired, "token expired"},
		{"bad signature", jwt.ErrInvalidSignature, "invalid token signature"},
		{"other failure", jwt.ErrInvalidToken, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &identitySpy{}
			rr := httptest.NewRecorder()

			Auth(&stubValidator{err: tt.err})(spy).ServeHTTP(rr, authedRequest("Bearer stale"))

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.wantDetail) {
				t.Errorf("expected detail %q, got %s", tt.wantDetail, rr.Body.String())
			}
			if spy.called {
				t.Error("handler must not run")
			}
		})
	}
}

// ============================================================================
// OptionalAuth
// ============================================================================

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	OptionalAuth(danaValidator())(spy).ServeHTTP(rr, authedRequest(""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !spy.called {
		t.Fatal("handler should run anonymously")
	}
	if spy.userID != "" || spy.claims != nil {
		t.Errorf("expected empty identity, got userID=%q claims=%+v", spy.userID, spy.claims)
	}
}

func TestOptionalAuth_ValidTokenPopulatesIdentity(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	OptionalAuth(danaValidator())(spy).ServeHTTP(rr, authedRequest("Bearer good-token"))

	if spy.userID != "user:77" {
		t.Errorf("expected user:77, got %q", spy.userID)
	}
}

func TestOptionalAuth_BadTokenTreatedAsAnonymous(t *testing.T) {
	spy := &identitySpy{}
	rr := httptest.NewRecorder()

	OptionalAuth(&stubValidator{err: jwt.ErrTokenExpired})(spy).ServeHTTP(rr, authedRequest("Bearer stale"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !spy.called {
		t.Fatal("handler should still run")
	}
	if spy.userID != "" {
		t.Errorf("expected anonymous context, got %q", spy.userID)
	}
}

// ============================================================================
// Context helpers
// ============================================================================

func TestContextHelpers_EmptyContext(t *testing.T) {
	ctx := context.Background()

	if GetUserID(ctx) != "" {
		t.Error("expected empty user ID")
	}
	if GetUserEmail(ctx) != "" {
		t.Error("expected empty email")
	}
	if GetClaims(ctx) != nil {
		t.Error("expected nil claims")
	}
}

func TestGetActor_BuildsProfileFromClaims(t *testing.T) {
	ctx := withClaims(context.Background(), &jwt.Claims{
		UserID:  "user:77",
		Name:    "Dana Diaz",
		Picture: "https://example.com/dana.png",
	})

	actor := GetActor(ctx)
	if actor.ID != "user:77" {
		t.Errorf("expected user:77, got %q", actor.ID)
	}
	if actor.DisplayName != "Dana Diaz" {
		t.Errorf("expected Dana Diaz, got %q", actor.DisplayName)
	}
	if actor.PhotoURL != "https://example.com/dana.png" {
		t.Errorf("expected photo URL, got %q", actor.PhotoURL)
	}
}

func TestGetActor_AnonymousIsZeroProfile(t *testing.T) {
	actor := GetActor(context.Background())
	if actor.ID != "" || actor.DisplayName != "" || actor.PhotoURL != "" {
		t.Errorf("expected zero profile, got %+v", actor)
	}
}
