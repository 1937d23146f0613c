package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full application configuration, loaded once at startup.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings.
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// RateLimitConfig holds request quota settings.
type RateLimitConfig struct {
	Rate   int
	Window time.Duration
	Burst  int
}

// Load builds the configuration from environment variables. Unset or
// unparseable values fall back to development defaults; Validate
// decides whether the result is acceptable.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           envString("SERVER_PORT", "8080"),
			Env:            envString("SERVER_ENV", "development"),
			ReadTimeout:    envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      envString("DB_HOST", "localhost"),
			Port:      envString("DB_PORT", "8000"),
			Namespace: envString("DB_NAMESPACE", "nextdink"),
			Database:  envString("DB_DATABASE", "main"),
			User:      envString("DB_USER", "root"),
			Password:  envString("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: envString("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  envString("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: envInt("JWT_EXPIRATION_MINS", 1440),
			Issuer:         envString("JWT_ISSUER", "api.nextdink.app"),
		},
		RateLimit: RateLimitConfig{
			Rate:   envInt("RATE_LIMIT_RATE", 100),
			Window: envDuration("RATE_LIMIT_WINDOW", time.Minute),
			Burst:  envInt("RATE_LIMIT_BURST", 20),
		},
	}, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate collects every configuration failure into one joined error,
// so a bad deployment reports all problems at once instead of the
// first.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Development may run on generated throwaway keys; production must
	// point at real ones.
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.Split(v, ",")
	}
	return fallback
}
