package repository

import (
	"strings"

	"github.com/univdesk/helpdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailAndRole finds a user by email (case-insensitive) and role
func (r *GormUserRepository) FindByEmailAndRole(email string, role models.Role) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ? AND role = ?", strings.ToLower(email), role).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether a user other than excludeID already uses the email
func (r *GormUserRepository) EmailTaken(email, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all users
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
