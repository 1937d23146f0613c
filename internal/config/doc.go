// Package config manages application configuration.
//
// Configuration is loaded from environment variables with sensible
// defaults and validated before the server starts:
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: request rate limiting settings
//
// A .env file, when present, is loaded by the server entrypoint before
// Load runs, so local development needs no exported environment.
package config
