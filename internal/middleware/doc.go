// Package middleware provides HTTP middleware for the Next Dink API.
//
// Middleware are plain func(http.Handler) http.Handler values composed
// with Chain:
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID,
//		middleware.Logger,
//		middleware.Recovery,
//	)
//
// # Authentication
//
// Auth validates a Bearer JWT and rejects the request when it is missing
// or invalid; OptionalAuth populates the same context values when a valid
// token is present but lets anonymous requests through. Handlers read the
// result with the context helpers:
//
//	userID := middleware.GetUserID(r.Context())
//	actor := middleware.GetActor(r.Context())
//
// GetActor builds a model.UserProfile from the token claims so roster
// writes can attribute slots without a user lookup.
//
// # Rate limiting and idempotency
//
// RateLimit applies a fixed-window quota keyed by authenticated user ID,
// falling back to the client address. Idempotency replays the stored
// response for repeated POST/PATCH requests carrying the same
// Idempotency-Key.
//
// # Context values
//
//   - GetRequestID(ctx): unique request identifier
//   - GetUserID(ctx): authenticated user ID, empty when anonymous
//   - GetUserEmail(ctx): authenticated user email
//   - GetClaims(ctx): full JWT claims, nil when anonymous
package middleware
