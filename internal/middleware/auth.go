// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate verifies the bearer token and attaches the principal to the context.
// Missing, malformed and invalid tokens all produce the same 401.
func Authenticate(verifier identity.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.GetTokenFromContext(c)
		if token == "" {
			logger.Debug("Authorization header missing or malformed", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}

		c.Set(common.UserEmailKey, principal.Email)
		c.Set(common.SubjectKey, principal.Subject)

		logger.Debug("User authenticated successfully",
			zap.String("email", principal.Email),
			zap.String("subject", principal.Subject),
		)
		c.Next()
	}
}

// ErrUnknownUser is returned by RoleLookup when no user has the email.
var ErrUnknownUser = errors.New("unknown user")

// RoleLookup reads a user's current role.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// RequireRole re-reads the principal's role on every request and rejects
// anyone outside allowedRoles. Must run after Authenticate.
func RequireRole(lookup RoleLookup, logger *zap.Logger, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := common.GetUserEmailFromContext(c)
		if email == "" {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}

		role, err := lookup.RoleOf(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, ErrUnknownUser) {
				common.RespondWithError(c, common.ErrForbidden)
				return
			}
			common.RespondWithError(c, err)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Set(common.UserRoleKey, role)
				c.Next()
				return
			}
		}

		logger.Warn("Role check failed", zap.String("email", email), zap.String("role", role))
		common.RespondWithError(c, common.ErrForbidden)
	}
}
