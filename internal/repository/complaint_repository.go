package repository

import (
	"errors"

	"github.com/univdesk/helpdesk-api/internal/database"
	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/utils"
	"gorm.io/gorm"
)

// ErrVersionMismatch is returned when a guarded update finds the stored
// version differs from the one the caller based its changes on.
var ErrVersionMismatch = errors.New("complaint repository: stored version changed")

// GormComplaintRepository is a GORM implementation of ComplaintRepository
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create creates a new complaint
func (r *GormComplaintRepository) Create(complaint *models.Complaint) error {
	return r.db.Create(complaint).Error
}

// FindByID finds a complaint by ID
func (r *GormComplaintRepository) FindByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindByIdempotencyKey finds the complaint created with the given key
func (r *GormComplaintRepository) FindByIdempotencyKey(key string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.Where("idempotency_key = ?", key).First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// List retrieves complaints with filtering and optional pagination
func (r *GormComplaintRepository) List(filter ComplaintFilter) ([]models.Complaint, int64, error) {
	query := r.db.Model(&models.Complaint{})

	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.EmptySolutionOnly {
		query = query.Where("solution_text = '' OR solution_text IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	var complaints []models.Complaint
	if err := listQuery.Find(&complaints).Error; err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// Update writes the mutable fields of a complaint, guarded by the version the
// caller read. The version column always advances, so zero affected rows means
// another writer got there first.
func (r *GormComplaintRepository) Update(complaint *models.Complaint, expectedVersion uint64) error {
	complaint.Version = expectedVersion + 1

	result := r.db.Model(&models.Complaint{}).
		Where("id = ? AND version = ?", complaint.ID, expectedVersion).
		Select("department", "status", "solution_text", "resolved_at", "version", "updated_at").
		Updates(complaint)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		complaint.Version = expectedVersion
		return ErrVersionMismatch
	}
	return nil
}
