package service

import (
	"context"
	"fmt"

	"vidbot/internal/domain"
	"vidbot/internal/repository"
)

// UserService handles user profile logic
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates the user with default settings. Replaying it is harmless.
func (s *UserService) Register(ctx context.Context, userID int64) error {
	return s.userRepo.EnsureUserExists(ctx, userID)
}

// Profile returns the stored profile, or the defaults for an unknown user
func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return domain.NewUser(userID), nil
	}
	return u, nil
}

// Language returns the user's language
func (s *UserService) Language(ctx context.Context, userID int64) (domain.Language, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return domain.DefaultLanguage, err
	}
	return domain.ParseLanguage(string(u.Language)), nil
}

// SetLanguage stores the user's language choice
func (s *UserService) SetLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	if err := s.userRepo.EnsureUserExists(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetLanguage(ctx, userID, lang)
}
