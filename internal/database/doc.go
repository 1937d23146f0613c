// Package database provides the database abstraction layer for the
// event service.
//
// The Database interface abstracts SurrealDB operations so repositories
// stay independent of the driver:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// # Concurrency
//
// Events are stored as single documents carrying a revision counter.
// Atomic read-modify-write cycles are implemented in the repository
// layer with a conditional UPDATE ... WHERE revision = $rev; a write
// that matches no record because the revision moved surfaces as
// ErrConflict and is retried by the caller.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConflict: Optimistic-concurrency write lost its race
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database
