// File: internal/user/handler.go
package user

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("", h.upsert)
		userGroup.GET("/:email", h.getByEmail)
		userGroup.GET("/admin/:email", authMW, h.isAdmin)
		userGroup.GET("", authMW, adminMW, h.list)
		userGroup.DELETE("/:email", authMW, adminMW, h.delete)
	}

	adminGroup := router.Group("/admin/users", authMW, adminMW)
	{
		adminGroup.GET("", h.list)
		adminGroup.PATCH("/:id/make-admin", h.makeAdmin)
		adminGroup.PATCH("/:id/role", h.updateRole)
	}
}

func (h *Handler) upsert(c *gin.Context) {
	var req UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("User upsert: invalid request body", zap.Error(err))
		common.RespondBindError(c, err)
		return
	}
	u, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, u)
}

func (h *Handler) getByEmail(c *gin.Context) {
	u, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, u)
}

func (h *Handler) isAdmin(c *gin.Context) {
	principal := common.GetUserEmailFromContext(c)
	admin, err := h.service.IsAdmin(c.Request.Context(), principal, c.Param("email"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"admin": admin})
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, users)
}

func (h *Handler) delete(c *gin.Context) {
	actor := common.GetUserEmailFromContext(c)
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("email")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "User deleted")
}

func (h *Handler) makeAdmin(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.MakeAdmin(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "User promoted to admin")
}

func (h *Handler) updateRole(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	actor := common.GetUserEmailFromContext(c)
	if err := h.service.UpdateRole(c.Request.Context(), actor, id, req.Role); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Role updated")
}
