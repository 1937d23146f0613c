package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nextdink/api/internal/model"
)

func TestUserService_Get_Success(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&model.User{
		ID:           "user:1",
		Email:        "pat@example.com",
		DisplayName:  "Pat Chen",
		PasswordHash: "secret-hash",
	})
	svc := NewUserService(repo)

	profile, err := svc.Get(context.Background(), "user:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile.DisplayName != "Pat Chen" {
		t.Errorf("expected display name 'Pat Chen', got %q", profile.DisplayName)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	_, err := svc.Get(context.Background(), "user:missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Search_QueryTooShort(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	_, err := svc.Search(context.Background(), " a ")
	if !errors.Is(err, ErrSearchQueryTooShort) {
		t.Errorf("expected ErrSearchQueryTooShort, got %v", err)
	}
}

func TestUserService_Search_CapsResults(t *testing.T) {
	repo := newMockUserRepo()
	for i := 0; i < model.MaxUserSearchResults+5; i++ {
		repo.add(&model.User{
			Email:       fmt.Sprintf("p%d@example.com", i),
			DisplayName: fmt.Sprintf("Pat %d", i),
		})
	}
	svc := NewUserService(repo)

	profiles, err := svc.Search(context.Background(), "Pat")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(profiles) > model.MaxUserSearchResults {
		t.Errorf("expected at most %d results, got %d", model.MaxUserSearchResults, len(profiles))
	}
}
