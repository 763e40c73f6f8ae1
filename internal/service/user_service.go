package service

import (
	"context"
	"strings"

	"askme/internal/models"
	"askme/internal/repository"
	"askme/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateSettingsInput carries the settings form. Empty fields are left unchanged.
type UpdateSettingsInput struct {
	UserID    uint
	FirstName string
	LastName  string
	Email     string
	Avatar    string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Avatar returns the avatar file of a user, falling back to the default one.
func (s *UserService) Avatar(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Profile == nil || user.Profile.Avatar == "" {
		return models.DefaultAvatar, nil
	}
	return user.Profile.Avatar, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 150

	if in.FirstName != "" {
		if len(in.FirstName) > maxNameLen {
			return nil, models.NewValidationError("First name too long (max 150 characters)")
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		if len(in.LastName) > maxNameLen {
			return nil, models.NewValidationError("Last name too long (max 150 characters)")
		}
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if email != user.Email {
			other, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, models.NewConflictError("Email is already registered")
			}
		}
		user.Email = email
	}
	if in.Avatar != "" {
		if err := validation.ValidateAvatar(in.Avatar); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if in.Avatar != "" {
		profile := user.Profile
		if profile == nil {
			profile = models.NewProfile(user.ID)
		}
		profile.Avatar = in.Avatar
		if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
			return nil, err
		}
		user.Profile = profile
	}
	return user, nil
}

// SetStaff grants or revokes staff status and returns the refreshed user.
func (s *UserService) SetStaff(ctx context.Context, targetID uint, staff bool) (*models.User, error) {
	if err := s.userRepo.SetStaff(ctx, targetID, staff); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}
