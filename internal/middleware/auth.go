package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/pkg/jwt"
)

// TokenValidator defines the interface for bearer token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that validates JWT tokens
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, problem := claimsFromRequest(r, validator)
			if problem != nil {
				problem.WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication.
// It sets identity in context when a valid token is present and passes
// the request through anonymously otherwise.
func OptionalAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, problem := claimsFromRequest(r, validator)
			if problem != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func claimsFromRequest(r *http.Request, validator TokenValidator) (*jwt.Claims, *model.ProblemDetails) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, model.NewUnauthorizedError("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, model.NewUnauthorizedError("invalid authorization header format")
	}

	claims, err := validator.Validate(parts[1])
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, model.NewUnauthorizedError("token expired")
		case errors.Is(err, jwt.ErrInvalidSignature):
			return nil, model.NewUnauthorizedError("invalid token signature")
		default:
			return nil, model.NewUnauthorizedError("invalid token")
		}
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// UserEmailKey is the context key for user email
const UserEmailKey contextKey = "userEmail"

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserEmail extracts the user email from context
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// GetActor returns the acting user's profile from the token claims, so
// handlers can attribute roster slots without a user lookup.
func GetActor(ctx context.Context) model.UserProfile {
	claims := GetClaims(ctx)
	if claims == nil {
		return model.UserProfile{}
	}
	return model.UserProfile{
		ID:          claims.UserID,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}
}
