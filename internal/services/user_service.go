package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/repository"
	"gorm.io/gorm"
)

// UserService handles directory and profile operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every account. Password hashes never serialize.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfileInput enumerates the fields a user may change on their own
// account. Role-specific fields outside the caller's role are ignored.
type UpdateProfileInput struct {
	Name           string
	Email          string
	Major          string
	Age            *int
	DepartmentName string
}

// UpdateProfile applies profile changes for the given user.
func (s *UserService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	if email != user.Email {
		taken, err := s.userRepo.EmailTaken(email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Name = name
	user.Email = email

	switch user.Role {
	case models.RoleStudent:
		if strings.TrimSpace(input.Major) != "" {
			user.Major = strings.TrimSpace(input.Major)
		}
		user.Age = input.Age
	case models.RoleDepartment:
		if input.DepartmentName != "" {
			if !models.ValidDepartment(input.DepartmentName) {
				return nil, ErrInvalidDepartment
			}
			user.DepartmentName = input.DepartmentName
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
