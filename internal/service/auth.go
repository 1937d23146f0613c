package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
	"github.com/nextdink/api/pkg/jwt"
)

// bcrypt cost factor (10-14 recommended for production)
const bcryptCost = 12

// UserRepository defines the interface for account storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDs(ctx context.Context, userIDs []string) ([]*model.User, error)
	SearchByName(ctx context.Context, prefix string, limit int) ([]*model.User, error)
}

// AuthService handles email/password signup and login and issues the
// bearer tokens the rest of the API authenticates with.
type AuthService struct {
	users      UserRepository
	jwtService *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, jwtService *jwt.Service) *AuthService {
	return &AuthService{users: users, jwtService: jwtService}
}

// Register creates a new account and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PhotoURL:     strings.TrimSpace(req.PhotoURL),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index on email can still race the existence check.
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token. Missing
// account and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *model.User) (*model.AuthResponse, error) {
	token, err := s.jwtService.Sign(jwt.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.DisplayName,
		Picture: user.PhotoURL,
	})
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Token: token,
		User:  user.Profile(),
	}, nil
}
