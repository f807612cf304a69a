package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/univdesk/helpdesk-api/internal/auth"
	"github.com/univdesk/helpdesk-api/internal/constants"
	apierrors "github.com/univdesk/helpdesk-api/internal/errors"
	"github.com/univdesk/helpdesk-api/internal/models"
)

// RequireAuth verifies the bearer token and stores the caller's identity in
// the request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenStr, secret)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}
