package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univdesk/helpdesk-api/internal/constants"
	apierrors "github.com/univdesk/helpdesk-api/internal/errors"
	"github.com/univdesk/helpdesk-api/internal/middleware"
	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/services"
	"github.com/univdesk/helpdesk-api/internal/utils"
)

// ComplaintHandler coordinates complaint lifecycle HTTP handlers.
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// currentActor builds the verified caller identity from the request context.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID, okID := middleware.GetUserID(c)
	role, okRole := middleware.GetUserRole(c)
	if !okID || !okRole {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}

// ListComplaints returns the complaints visible to the caller, scoped by
// role: students see their own tickets, staff see their department's queue.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListComplaintsInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.ComplaintStatus(statusStr)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}

	complaints, total, err := h.complaintService.ListComplaints(actor, input)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetComplaint returns a single complaint the caller may see.
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	complaint, err := h.complaintService.GetComplaint(c.Param("id"), actor)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// CreateComplaint files a new complaint. Replays carrying the same
// Idempotency-Key return the original record instead of duplicating it.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateComplaintRequest struct {
		StudentID     string `json:"studentId"`
		Department    string `json:"department" binding:"required"`
		ComplaintText string `json:"complaintText" binding:"required"`
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, created, err := h.complaintService.CreateComplaint(c.Request.Context(), services.CreateComplaintInput{
		Actor:          actor,
		StudentID:      req.StudentID,
		Department:     req.Department,
		ComplaintText:  req.ComplaintText,
		IdempotencyKey: c.GetHeader(constants.HeaderIdempotencyKey),
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, complaint)
}

// UpdateComplaint applies a partial update. Unknown fields are rejected at
// the boundary so nothing outside the mutable set ever reaches storage.
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateComplaintRequest struct {
		Department   *string                 `json:"department"`
		Status       *models.ComplaintStatus `json:"status"`
		SolutionText *string                 `json:"solutionText"`
		Version      *uint64                 `json:"version"`
	}

	var req UpdateComplaintRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.UpdateComplaint(c.Param("id"), actor, services.UpdateComplaintInput{
		Department:      req.Department,
		Status:          req.Status,
		SolutionText:    req.SolutionText,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func respondComplaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrVersionConflict):
		apierrors.VersionConflict(c, err.Error())
	case errors.Is(err, services.ErrComplaintTextRequired),
		errors.Is(err, services.ErrInvalidDepartment),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSolutionRequired),
		errors.Is(err, services.ErrSolutionMissing):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured),
		errors.Is(err, services.ErrMalformedAIResponse):
		apierrors.AIServiceError(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
