// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetTokenFromContext retrieves the bearer token from the Authorization header.
// Returns an empty string if not found or malformed.
func GetTokenFromContext(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetUserEmailFromContext retrieves the principal's email from the Gin context.
func GetUserEmailFromContext(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// GetSubjectFromContext retrieves the principal's subject id.
func GetSubjectFromContext(c *gin.Context) string {
	return c.GetString(SubjectKey)
}

// GetUserRoleFromContext retrieves the role set by the role guard.
func GetUserRoleFromContext(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
