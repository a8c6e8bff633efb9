package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// UpdateProfileInput carries the profile fields to change. Nil means unchanged.
type UpdateProfileInput struct {
	Name  *string
	Bio   *string
	Image *string
}

// UserService serves the authenticated user's own profile.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the user's profile with post, like and comment counts.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.users.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.NewProfile(user, counts), nil
}

// UpdateProfile overwrites the supplied fields and returns the profile without counts.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.Profile, error) {
	if in.Image != nil {
		if err := validation.ValidateURL(*in.Image); err != nil {
			return nil, models.NewValidationError(models.FieldError{Field: "image", Message: err.Error()})
		}
	}

	user, err := s.users.UpdateProfile(ctx, userID, repository.ProfileChanges{
		Name:  in.Name,
		Bio:   in.Bio,
		Image: in.Image,
	})
	if err != nil {
		return nil, err
	}
	return models.NewProfile(user, nil), nil
}
