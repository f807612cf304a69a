package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/univdesk/helpdesk-api/internal/auth"
	"github.com/univdesk/helpdesk-api/internal/constants"
	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials or role")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("role must be student or department")
	ErrMajorRequired        = errors.New("major is required for student accounts")
	ErrInvalidDepartment    = errors.New("department is not one of the known departments")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, credential checks, and token issuance.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           models.Role
	Major          string
	DepartmentName string
	Age            *int
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user := &models.User{
		Name:  name,
		Email: email,
		Role:  input.Role,
	}

	switch input.Role {
	case models.RoleStudent:
		if strings.TrimSpace(input.Major) == "" {
			return nil, ErrMajorRequired
		}
		user.ID = fmt.Sprintf("S%d", time.Now().UnixMilli())
		user.Major = strings.TrimSpace(input.Major)
		user.Age = input.Age
	case models.RoleDepartment:
		if !models.ValidDepartment(input.DepartmentName) {
			return nil, ErrInvalidDepartment
		}
		user.ID = fmt.Sprintf("D%d", time.Now().UnixMilli())
		user.DepartmentName = input.DepartmentName
	}

	taken, err := s.userRepo.EmailTaken(email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
	Role     models.Role
}

// Login verifies credentials for the given role and returns the user together
// with a signed session token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	if !input.Role.Valid() {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmailAndRole(input.Email, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
