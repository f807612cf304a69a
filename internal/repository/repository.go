package repository

import (
	"github.com/univdesk/helpdesk-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmailAndRole finds a user by lowercase email and role
	FindByEmailAndRole(email string, role models.Role) (*models.User, error)

	// EmailTaken reports whether another user already uses the email
	EmailTaken(email, excludeID string) (bool, error)

	// List returns all users
	List() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// ComplaintFilter holds filtering options for listing complaints
type ComplaintFilter struct {
	StudentID         string
	Department        string
	Statuses          []models.ComplaintStatus
	EmptySolutionOnly bool
	Page              int
	PageSize          int
}

// ComplaintRepository defines the interface for complaint data access
type ComplaintRepository interface {
	// Create creates a new complaint
	Create(complaint *models.Complaint) error

	// FindByID finds a complaint by ID
	FindByID(id string) (*models.Complaint, error)

	// FindByIdempotencyKey finds the complaint created with the given key
	FindByIdempotencyKey(key string) (*models.Complaint, error)

	// List retrieves complaints with filtering and optional pagination
	List(filter ComplaintFilter) ([]models.Complaint, int64, error)

	// Update persists the mutable complaint fields, guarded by the version
	// the caller read. Returns ErrVersionMismatch if the stored version moved.
	Update(complaint *models.Complaint, expectedVersion uint64) error
}
