package identity

import (
	"context"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Directory answers whether a user record exists for an email.
type Directory interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Handler issues self-signed tokens.
type Handler struct {
	jwt    *JWTService
	users  Directory
	logger *zap.Logger
}

// NewHandler creates a new identity handler.
func NewHandler(jwtService *JWTService, users Directory, logger *zap.Logger) *Handler {
	return &Handler{jwt: jwtService, users: users, logger: logger}
}

// RegisterRoutes mounts POST /jwt.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/jwt", h.issueToken)
}

// IssueTokenRequest is the body of POST /jwt.
type IssueTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenResponse is the body returned by POST /jwt.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) issueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	email := common.NormalizeEmail(req.Email)

	exists, err := h.users.EmailExists(c.Request.Context(), email)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if !exists {
		h.logger.Warn("Token requested for unknown email", zap.String("email", email))
		common.RespondWithError(c, common.ErrNotFound.WithMessage("User not found"))
		return
	}

	token, expiresAt, err := h.jwt.Issue(email)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
