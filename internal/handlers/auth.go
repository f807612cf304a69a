package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univdesk/helpdesk-api/internal/constants"
	"github.com/univdesk/helpdesk-api/internal/dto"
	apierrors "github.com/univdesk/helpdesk-api/internal/errors"
	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new account.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name           string      `json:"name" binding:"required"`
		Email          string      `json:"email" binding:"required,email"`
		Password       string      `json:"password" binding:"required"`
		Role           models.Role `json:"role" binding:"required"`
		Major          string      `json:"major"`
		DepartmentName string      `json:"departmentName"`
		Age            *int        `json:"age"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		Major:          req.Major,
		DepartmentName: req.DepartmentName,
		Age:            req.Age,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string      `json:"email" binding:"required"`
		Password string      `json:"password" binding:"required"`
		Role     models.Role `json:"role" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrMajorRequired),
		errors.Is(err, services.ErrInvalidDepartment):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
