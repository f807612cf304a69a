package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/univdesk/helpdesk-api/internal/errors"
	"github.com/univdesk/helpdesk-api/internal/services"
)

// AIHandler exposes the advisory, on-demand oracle operations. These never
// mutate stored complaints; the caller decides what to do with the output.
type AIHandler struct {
	complaintService *services.ComplaintService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(complaintService *services.ComplaintService) *AIHandler {
	return &AIHandler{
		complaintService: complaintService,
	}
}

// SuggestDepartment returns the oracle's routing advice for a complaint text.
func (h *AIHandler) SuggestDepartment(c *gin.Context) {
	type SuggestRequest struct {
		ComplaintText string `json:"complaintText" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestion, err := h.complaintService.SuggestDepartment(c.Request.Context(), req.ComplaintText)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// GenerateSolution drafts a staff response for the complaint.
func (h *AIHandler) GenerateSolution(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	solution, err := h.complaintService.DraftSolution(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"solutionText": solution})
}

// GenerateStudentRecommendation advises the student on the staff solution.
func (h *AIHandler) GenerateStudentRecommendation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type AdviseRequest struct {
		SolutionText string `json:"solutionText"`
	}

	var req AdviseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	recommendation, err := h.complaintService.AdviseStudent(c.Request.Context(), c.Param("id"), actor, req.SolutionText)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendationText": recommendation})
}

// BatchGenerateSolutions drafts and persists solutions for every active,
// unanswered complaint in the caller's department.
func (h *AIHandler) BatchGenerateSolutions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type BatchRequest struct {
		Department string `json:"department"`
	}

	var req BatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.complaintService.BatchDraftSolutions(c.Request.Context(), actor, req.Department)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondAIError maps advisory-path errors. These endpoints exist solely for
// the oracle result, so unlike the write path its failure surfaces to the
// caller.
func respondAIError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrOracleFailure) {
		apierrors.AIServiceError(c, err.Error())
		return
	}
	respondComplaintError(c, err)
}
