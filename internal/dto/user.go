package dto

import (
	"github.com/univdesk/helpdesk-api/internal/models"
)

// UserDTO represents a user in API responses. Password hashes never appear.
type UserDTO struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	Major          string      `json:"major,omitempty"`
	DepartmentName string      `json:"departmentName,omitempty"`
	Age            *int        `json:"age,omitempty"`
}

// LoginResponse carries the session token together with the account.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		Major:          user.Major,
		DepartmentName: user.DepartmentName,
		Age:            user.Age,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
