package models

import (
	"time"
)

type ComplaintStatus string

const (
	ComplaintStatusOpen     ComplaintStatus = "Open"
	ComplaintStatusClosed   ComplaintStatus = "Closed"
	ComplaintStatusReopened ComplaintStatus = "Reopened"
)

// Valid reports whether the status is a known lifecycle state.
func (s ComplaintStatus) Valid() bool {
	return s == ComplaintStatusOpen || s == ComplaintStatusClosed || s == ComplaintStatusReopened
}

// Active reports whether the complaint still sits in a staff-visible queue.
func (s ComplaintStatus) Active() bool {
	return s == ComplaintStatusOpen || s == ComplaintStatusReopened
}

type ComplaintPriority string

const (
	PriorityUrgent ComplaintPriority = "Urgent"
	PriorityHigh   ComplaintPriority = "High"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityLow    ComplaintPriority = "Low"
)

// Valid reports whether the priority is part of the fixed classification set.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Complaint struct {
	ID            string `gorm:"primarykey;type:varchar(64)" json:"id"`
	StudentID     string `gorm:"type:varchar(64);not null;index" json:"studentId"`
	StudentName   string `gorm:"type:varchar(255);not null" json:"studentName"`
	Department    string `gorm:"type:varchar(255);not null;index" json:"department"`
	ComplaintText string `gorm:"type:text;not null" json:"complaintText"`

	Status   ComplaintStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority ComplaintPriority `gorm:"type:varchar(20);not null" json:"priority"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"-"`
	ResolvedAt *time.Time `json:"resolvedAt"`

	SolutionText     string `gorm:"type:text" json:"solutionText"`
	AIRecommendation string `gorm:"type:text" json:"aiRecommendation"`

	// IdempotencyKey deduplicates repeated create submissions.
	IdempotencyKey *string `gorm:"type:varchar(128);uniqueIndex" json:"-"`

	// Version guards concurrent updates: a guarded write only lands when the
	// stored version matches the one the write was based on.
	Version uint64 `gorm:"not null;default:1" json:"version"`

	// Relations
	Student User `gorm:"foreignKey:StudentID" json:"-"`
}
