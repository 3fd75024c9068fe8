package services

import (
	"context"
	"errors"
	"fmt"

	"blogsite/internal/models"
	"blogsite/internal/repositories"

	"github.com/rs/zerolog"
)

// UserService handles business logic for user profiles.
type UserService struct {
	userRepo repositories.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// SaveUser stores the profile unless a user with the same uid exists.
// It reports whether a new document was created.
func (s *UserService) SaveUser(ctx context.Context, caller *Identity, user *models.User) (bool, error) {
	if caller.Email != user.Email {
		return false, fmt.Errorf("profile email does not match the signed-in user: %w", ErrForbidden)
	}

	if _, err := s.userRepo.GetByUID(ctx, user.UID); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to save user: %w", err)
	}
	s.log.Info().Str("uid", user.UID).Msg("user created")
	return true, nil
}

// GetUser looks a user up by email, falling back to uid.
func (s *UserService) GetUser(ctx context.Context, email, uid string) (*models.User, error) {
	switch {
	case email != "":
		return s.userRepo.GetByEmail(ctx, email)
	case uid != "":
		return s.userRepo.GetByUID(ctx, uid)
	default:
		return nil, invalid("", "missing uid or email query parameter")
	}
}

// UpdateProfile applies patch to the user with the given document id.
// Only the profile's owner may change it.
func (s *UserService) UpdateProfile(ctx context.Context, caller *Identity, id string, patch models.ProfilePatch) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email != caller.Email {
		return nil, fmt.Errorf("you can only update your own profile: %w", ErrForbidden)
	}
	if patch.Empty() {
		return user, nil
	}

	patch.Apply(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}
