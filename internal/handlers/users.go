package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univdesk/helpdesk-api/internal/dto"
	apierrors "github.com/univdesk/helpdesk-api/internal/errors"
	"github.com/univdesk/helpdesk-api/internal/middleware"
	"github.com/univdesk/helpdesk-api/internal/services"
)

// UserHandler coordinates user directory and profile HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns every account without credentials.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// UpdateProfile updates the authenticated user's own account.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		Name           string `json:"name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Major          string `json:"major"`
		Age            *int   `json:"age"`
		DepartmentName string `json:"departmentName"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		Major:          req.Major,
		Age:            req.Age,
		DepartmentName: req.DepartmentName,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.Conflict(c, "This email is already in use by another account")
		case errors.Is(err, services.ErrInvalidDepartment):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
