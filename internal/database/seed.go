package database

import (
	"fmt"
	"log"

	"github.com/univdesk/helpdesk-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates a sample student and one staff account per department when the
// users table is empty, so a fresh install has working logins.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("No users found, seeding sample accounts...")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	age := 21
	users := []models.User{
		{
			ID:           "S1000000000000",
			Name:         "Sample Student",
			Email:        "student@university.edu",
			PasswordHash: string(hashed),
			Role:         models.RoleStudent,
			Major:        "Computer Science",
			Age:          &age,
		},
	}

	for i, dept := range models.Departments {
		users = append(users, models.User{
			ID:             fmt.Sprintf("D100000000000%d", i),
			Name:           fmt.Sprintf("%s Staff", dept),
			Email:          fmt.Sprintf("staff%d@university.edu", i+1),
			PasswordHash:   string(hashed),
			Role:           models.RoleDepartment,
			DepartmentName: dept,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log.Printf("Seeded %d sample accounts (password: \"password\")", len(users))
	return nil
}
