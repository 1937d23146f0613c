package service

import (
	"context"
	"strings"

	"github.com/nextdink/api/internal/model"
)

// UserService is the user directory: profile lookups for attendee views
// and name search for the invite flow.
type UserService struct {
	users UserRepository
}

// NewUserService creates a new user service
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// Get returns the public profile for a user.
func (s *UserService) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	profile := user.Profile()
	return &profile, nil
}

// Search finds users by display name for the invite picker. The query
// must carry at least MinUserSearchQueryLength significant characters;
// results are capped at MaxUserSearchResults.
func (s *UserService) Search(ctx context.Context, query string) ([]model.UserProfile, error) {
	query = strings.TrimSpace(query)
	if len(query) < model.MinUserSearchQueryLength {
		return nil, ErrSearchQueryTooShort
	}

	users, err := s.users.SearchByName(ctx, query, model.MaxUserSearchResults)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	return profiles, nil
}
