package models

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleDepartment Role = "department"
)

// Valid reports whether the role is one of the two supported account types.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleDepartment
}

type User struct {
	ID           string `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`

	// Role-specific attributes: exactly one side is populated.
	Major          string `gorm:"type:varchar(255)" json:"major,omitempty"`
	DepartmentName string `gorm:"type:varchar(255)" json:"departmentName,omitempty"`
	Age            *int   `json:"age,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Complaints []Complaint `gorm:"foreignKey:StudentID" json:"-"`
}
