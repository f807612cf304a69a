package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrComplaintNotFound     = errors.New("complaint not found")
	ErrStudentNotFound       = errors.New("student not found")
	ErrComplaintTextRequired = errors.New("complaint text is required")
	ErrPermissionDenied      = errors.New("user does not have permission to perform this action")
	ErrSolutionRequired      = errors.New("solution required before closing")
	ErrInvalidStatus         = errors.New("status is not a valid lifecycle state")
	ErrInvalidTransition     = errors.New("status transition is not allowed for this user")
	ErrVersionConflict       = errors.New("complaint was modified by another request")
	ErrSolutionMissing       = errors.New("no solution available to evaluate")
	ErrOracleFailure         = errors.New("AI request failed")
)

// Actor identifies the verified caller of a lifecycle operation.
type Actor struct {
	ID   string
	Role models.Role
}

// ComplaintService enforces creation invariants, authorization rules, and
// legal status transitions, and orchestrates oracle calls around them.
type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
	oracle        Oracle
}

// NewComplaintService creates a new ComplaintService. oracle may be nil, in
// which case enrichment falls back to deterministic defaults and advisory
// operations report the service as unconfigured.
func NewComplaintService(complaintRepo repository.ComplaintRepository, userRepo repository.UserRepository, oracle Oracle) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		oracle:        oracle,
	}
}

// CreateComplaintInput represents input for filing a complaint.
type CreateComplaintInput struct {
	Actor          Actor
	StudentID      string
	Department     string
	ComplaintText  string
	IdempotencyKey string
}

// CreateComplaint files a new complaint. Students file for themselves;
// department staff may file on behalf of an existing student. Oracle
// enrichment is best-effort: its failure never blocks the write.
func (s *ComplaintService) CreateComplaint(ctx context.Context, input CreateComplaintInput) (*models.Complaint, bool, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.complaintRepo.FindByIdempotencyKey(input.IdempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	if strings.TrimSpace(input.ComplaintText) == "" {
		return nil, false, ErrComplaintTextRequired
	}
	if !models.ValidDepartment(input.Department) {
		return nil, false, ErrInvalidDepartment
	}

	studentID := input.StudentID
	if input.Actor.Role == models.RoleStudent {
		studentID = input.Actor.ID
	}

	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStudentNotFound
		}
		return nil, false, fmt.Errorf("failed to resolve student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, false, ErrStudentNotFound
	}

	priority := s.classifyPriority(ctx, input.ComplaintText)
	recommendation := s.draftStaffGuidance(ctx, input.ComplaintText)

	complaint := &models.Complaint{
		ID:               fmt.Sprintf("TCKT%d", time.Now().UnixMilli()),
		StudentID:        student.ID,
		StudentName:      student.Name,
		Department:       input.Department,
		ComplaintText:    input.ComplaintText,
		Status:           models.ComplaintStatusOpen,
		Priority:         priority,
		CreatedAt:        time.Now(),
		SolutionText:     "",
		AIRecommendation: recommendation,
		Version:          1,
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		complaint.IdempotencyKey = &key
	}

	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, false, fmt.Errorf("failed to create complaint: %w", err)
	}

	return complaint, true, nil
}

// GetComplaint returns a complaint the actor is allowed to see.
func (s *ComplaintService) GetComplaint(id string, actor Actor) (*models.Complaint, error) {
	complaint, err := s.findComplaint(id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleStudent && complaint.StudentID != actor.ID {
		return nil, ErrPermissionDenied
	}

	return complaint, nil
}

// ListComplaintsInput represents filters for listing complaints.
type ListComplaintsInput struct {
	Status   *models.ComplaintStatus
	Page     int
	PageSize int
}

// ListComplaints returns complaints scoped to the caller: students see their
// own tickets, department staff see their department's queue.
func (s *ComplaintService) ListComplaints(actor Actor, input ListComplaintsInput) ([]models.Complaint, int64, error) {
	filter := repository.ComplaintFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Status != nil {
		filter.Statuses = []models.ComplaintStatus{*input.Status}
	}

	switch actor.Role {
	case models.RoleStudent:
		filter.StudentID = actor.ID
	case models.RoleDepartment:
		staff, err := s.userRepo.FindByID(actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrUserNotFound
			}
			return nil, 0, fmt.Errorf("failed to resolve staff account: %w", err)
		}
		filter.Department = staff.DepartmentName
	default:
		return nil, 0, ErrPermissionDenied
	}

	complaints, total, err := s.complaintRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}

	return complaints, total, nil
}

// UpdateComplaintInput enumerates the legally mutable complaint fields.
// Everything else is immutable after creation.
type UpdateComplaintInput struct {
	Department      *string
	Status          *models.ComplaintStatus
	SolutionText    *string
	ExpectedVersion *uint64
}

// UpdateComplaint applies a partial update under the authorization and state
// machine rules, then persists through a version-guarded write.
func (s *ComplaintService) UpdateComplaint(id string, actor Actor, input UpdateComplaintInput) (*models.Complaint, error) {
	complaint, err := s.findComplaint(id)
	if err != nil {
		return nil, err
	}

	if input.ExpectedVersion != nil && *input.ExpectedVersion != complaint.Version {
		return nil, ErrVersionConflict
	}
	baseVersion := complaint.Version

	switch actor.Role {
	case models.RoleStudent:
		if err := s.applyStudentUpdate(complaint, actor, input); err != nil {
			return nil, err
		}
	case models.RoleDepartment:
		if err := s.applyDepartmentUpdate(complaint, input); err != nil {
			return nil, err
		}
	default:
		return nil, ErrPermissionDenied
	}

	if err := s.complaintRepo.Update(complaint, baseVersion); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	return complaint, nil
}

// applyStudentUpdate handles the two student-initiated transitions: self-close
// and reopen. Students may not touch department or solution text.
func (s *ComplaintService) applyStudentUpdate(complaint *models.Complaint, actor Actor, input UpdateComplaintInput) error {
	if complaint.StudentID != actor.ID {
		return ErrPermissionDenied
	}
	if input.Department != nil || input.SolutionText != nil {
		return ErrPermissionDenied
	}
	if input.Status == nil {
		return ErrInvalidTransition
	}

	switch *input.Status {
	case models.ComplaintStatusClosed:
		// Self-close: no staff solution required.
		if complaint.Status == models.ComplaintStatusClosed {
			return ErrInvalidTransition
		}
		now := time.Now()
		complaint.Status = models.ComplaintStatusClosed
		complaint.ResolvedAt = &now
	case models.ComplaintStatusReopened:
		if complaint.Status != models.ComplaintStatusClosed {
			return ErrInvalidTransition
		}
		complaint.Status = models.ComplaintStatusReopened
		complaint.SolutionText = ""
		complaint.ResolvedAt = nil
	default:
		if !input.Status.Valid() {
			return ErrInvalidStatus
		}
		return ErrInvalidTransition
	}

	return nil
}

// applyDepartmentUpdate merges the staff-editable fields and enforces the
// close invariant. Closed complaints can only return to circulation through
// the owning student's reopen or a staff move back to Open.
func (s *ComplaintService) applyDepartmentUpdate(complaint *models.Complaint, input UpdateComplaintInput) error {
	if input.Department != nil {
		if !models.ValidDepartment(*input.Department) {
			return ErrInvalidDepartment
		}
		complaint.Department = *input.Department
	}
	if input.SolutionText != nil {
		complaint.SolutionText = *input.SolutionText
	}

	if input.Status == nil {
		return nil
	}
	next := *input.Status
	if !next.Valid() {
		return ErrInvalidStatus
	}
	prev := complaint.Status
	if next == prev {
		return nil
	}

	switch next {
	case models.ComplaintStatusClosed:
		if strings.TrimSpace(complaint.SolutionText) == "" {
			return ErrSolutionRequired
		}
		now := time.Now()
		complaint.Status = models.ComplaintStatusClosed
		complaint.ResolvedAt = &now
	case models.ComplaintStatusReopened:
		if prev == models.ComplaintStatusClosed {
			// Reopening is the owning student's call.
			return ErrPermissionDenied
		}
		complaint.Status = models.ComplaintStatusReopened
	case models.ComplaintStatusOpen:
		complaint.Status = models.ComplaintStatusOpen
		if prev == models.ComplaintStatusClosed {
			complaint.ResolvedAt = nil
		}
	}

	return nil
}

// SuggestDepartment asks the oracle which department should own the text.
// Advisory only: nothing is persisted.
func (s *ComplaintService) SuggestDepartment(ctx context.Context, complaintText string) (*DepartmentSuggestion, error) {
	if s.oracle == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(complaintText) == "" {
		return nil, ErrComplaintTextRequired
	}

	suggestion, err := s.oracle.SuggestDepartment(ctx, complaintText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	return suggestion, nil
}

// DraftSolution asks the oracle for a staff response draft for the complaint.
// Advisory only: the caller decides whether to apply it via UpdateComplaint.
func (s *ComplaintService) DraftSolution(ctx context.Context, id string, actor Actor) (string, error) {
	if s.oracle == nil {
		return "", ErrAIServiceNotConfigured
	}

	complaint, err := s.GetComplaint(id, actor)
	if err != nil {
		return "", err
	}

	solution, err := s.oracle.DraftSolution(ctx, complaint.ComplaintText, complaint.Department)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	return solution, nil
}

// AdviseStudent asks the oracle whether the solution looks adequate. A
// non-empty solutionOverride takes precedence over the stored solution so the
// client can evaluate an unsaved draft.
func (s *ComplaintService) AdviseStudent(ctx context.Context, id string, actor Actor, solutionOverride string) (string, error) {
	if s.oracle == nil {
		return "", ErrAIServiceNotConfigured
	}

	complaint, err := s.GetComplaint(id, actor)
	if err != nil {
		return "", err
	}

	solution := solutionOverride
	if strings.TrimSpace(solution) == "" {
		solution = complaint.SolutionText
	}
	if strings.TrimSpace(solution) == "" {
		return "", ErrSolutionMissing
	}

	advice, err := s.oracle.AdviseStudent(ctx, complaint.ComplaintText, solution)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	return advice, nil
}

// BatchEnrichmentResult reports the outcome of a bulk solution-drafting run.
type BatchEnrichmentResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BatchDraftSolutions drafts and persists solutions for every active
// complaint in the department that has no solution yet. Items fail
// independently: one oracle failure never aborts the rest, and re-running the
// batch naturally skips items that already got a solution.
func (s *ComplaintService) BatchDraftSolutions(ctx context.Context, actor Actor, department string) (*BatchEnrichmentResult, error) {
	if actor.Role != models.RoleDepartment {
		return nil, ErrPermissionDenied
	}
	if s.oracle == nil {
		return nil, ErrAIServiceNotConfigured
	}

	if department == "" {
		staff, err := s.userRepo.FindByID(actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve staff account: %w", err)
		}
		department = staff.DepartmentName
	}
	if !models.ValidDepartment(department) {
		return nil, ErrInvalidDepartment
	}

	complaints, _, err := s.complaintRepo.List(repository.ComplaintFilter{
		Department:        department,
		Statuses:          []models.ComplaintStatus{models.ComplaintStatusOpen, models.ComplaintStatusReopened},
		EmptySolutionOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints for enrichment: %w", err)
	}

	result := &BatchEnrichmentResult{Total: len(complaints)}
	for i := range complaints {
		complaint := &complaints[i]

		solution, err := s.oracle.DraftSolution(ctx, complaint.ComplaintText, complaint.Department)
		if err != nil {
			log.Printf("batch enrichment: drafting solution for %s failed: %v", complaint.ID, err)
			result.Failed++
			continue
		}

		complaint.SolutionText = solution
		if err := s.complaintRepo.Update(complaint, complaint.Version); err != nil {
			log.Printf("batch enrichment: persisting solution for %s failed: %v", complaint.ID, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

func (s *ComplaintService) findComplaint(id string) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	return complaint, nil
}

// classifyPriority wraps the oracle call with the deterministic fallback the
// write path requires.
func (s *ComplaintService) classifyPriority(ctx context.Context, complaintText string) models.ComplaintPriority {
	if s.oracle == nil {
		return models.PriorityMedium
	}
	priority, err := s.oracle.ClassifyPriority(ctx, complaintText)
	if err != nil {
		log.Printf("priority classification failed, falling back to Medium: %v", err)
		return models.PriorityMedium
	}
	return priority
}

// draftStaffGuidance wraps the oracle call; an empty recommendation is the
// accepted fallback.
func (s *ComplaintService) draftStaffGuidance(ctx context.Context, complaintText string) string {
	if s.oracle == nil {
		return ""
	}
	guidance, err := s.oracle.DraftStaffGuidance(ctx, complaintText)
	if err != nil {
		log.Printf("staff guidance generation failed, leaving empty: %v", err)
		return ""
	}
	return guidance
}
