package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nextdink/api/internal/config"
	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/handler"
	"github.com/nextdink/api/internal/middleware"
	"github.com/nextdink/api/internal/repository"
	"github.com/nextdink/api/internal/service"
	"github.com/nextdink/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present; real environment wins over file values
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	eventService := service.NewEventService(eventRepo, userRepo)
	registrationService := service.NewRegistrationService(eventRepo)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db)

	// Middleware
	auth := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
	defer idempotencyStore.Stop()
	idempotent := middleware.Idempotency(idempotencyStore)

	mux := http.NewServeMux()

	// Public routes
	mux.Handle("POST /v1/auth/register", http.HandlerFunc(authHandler.Register))
	mux.Handle("POST /v1/auth/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("GET /v1/health", http.HandlerFunc(healthHandler.Health))

	// Event reads; optional auth so public events work anonymously while
	// private ones resolve for their members
	mux.Handle("GET /v1/events/{eventId}", middleware.Chain(http.HandlerFunc(eventHandler.Get), optionalAuth))
	mux.Handle("GET /v1/events/code/{code}", middleware.Chain(http.HandlerFunc(eventHandler.GetByCode), optionalAuth))
	mux.Handle("GET /v1/events/{eventId}/attendees", middleware.Chain(http.HandlerFunc(eventHandler.Attendees), optionalAuth))

	// Event lifecycle
	mux.Handle("POST /v1/events", middleware.Chain(http.HandlerFunc(eventHandler.Create), auth, idempotent))
	mux.Handle("PATCH /v1/events/{eventId}", middleware.Chain(http.HandlerFunc(eventHandler.Update), auth))
	mux.Handle("POST /v1/events/{eventId}/cancel", middleware.Chain(http.HandlerFunc(eventHandler.Cancel), auth))
	mux.Handle("DELETE /v1/events/{eventId}", middleware.Chain(http.HandlerFunc(eventHandler.Delete), auth))

	// Listings
	mux.Handle("GET /v1/me/events/owned", middleware.Chain(http.HandlerFunc(eventHandler.ListOwned), auth))
	mux.Handle("GET /v1/me/events/administered", middleware.Chain(http.HandlerFunc(eventHandler.ListAdministered), auth))
	mux.Handle("GET /v1/me/events/joined", middleware.Chain(http.HandlerFunc(eventHandler.ListJoined), auth))
	mux.Handle("GET /v1/me/events/invited", middleware.Chain(http.HandlerFunc(eventHandler.ListInvited), auth))
	mux.Handle("GET /v1/me/events/declined", middleware.Chain(http.HandlerFunc(eventHandler.ListDeclined), auth))

	// Registrations
	mux.Handle("POST /v1/events/{eventId}/teams", middleware.Chain(http.HandlerFunc(registrationHandler.RegisterTeam), auth, idempotent))
	mux.Handle("DELETE /v1/events/{eventId}/registration", middleware.Chain(http.HandlerFunc(registrationHandler.LeaveTeam), auth))
	mux.Handle("POST /v1/events/{eventId}/decline", middleware.Chain(http.HandlerFunc(registrationHandler.DeclineEvent), auth))
	mux.Handle("POST /v1/events/{eventId}/teams/{teamId}/claim", middleware.Chain(http.HandlerFunc(registrationHandler.ClaimSlot), auth, idempotent))
	mux.Handle("PATCH /v1/events/{eventId}/teams/{teamId}/members", middleware.Chain(http.HandlerFunc(registrationHandler.UpdateTeamMember), auth))
	mux.Handle("DELETE /v1/events/{eventId}/teams/{teamId}", middleware.Chain(http.HandlerFunc(registrationHandler.RemoveTeam), auth))
	mux.Handle("POST /v1/events/{eventId}/guest-teams", middleware.Chain(http.HandlerFunc(registrationHandler.AddGuestTeam), auth, idempotent))

	// Invitations
	mux.Handle("POST /v1/events/{eventId}/invites", middleware.Chain(http.HandlerFunc(registrationHandler.InviteUser), auth))
	mux.Handle("DELETE /v1/events/{eventId}/invites/{userId}", middleware.Chain(http.HandlerFunc(registrationHandler.RemoveInvitation), auth))
	mux.Handle("POST /v1/events/{eventId}/invites/decline", middleware.Chain(http.HandlerFunc(registrationHandler.DeclineInvitation), auth))

	// Event admins
	mux.Handle("POST /v1/events/{eventId}/admins", middleware.Chain(http.HandlerFunc(registrationHandler.AddAdmin), auth))
	mux.Handle("DELETE /v1/events/{eventId}/admins/{userId}", middleware.Chain(http.HandlerFunc(registrationHandler.RemoveAdmin), auth))

	// User directory
	mux.Handle("GET /v1/users/search", middleware.Chain(http.HandlerFunc(userHandler.Search), auth))
	mux.Handle("GET /v1/users/{userId}", middleware.Chain(http.HandlerFunc(userHandler.Get), auth))

	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
