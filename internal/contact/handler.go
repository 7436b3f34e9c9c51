package contact

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the public contact form and the admin reader.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	router.POST("/contact-messages", h.create)
	router.GET("/admin/contact-messages", authMW, adminMW, h.list)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Contact message: invalid request body", zap.Error(err))
		common.RespondBindError(c, err)
		return
	}
	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, m)
}

func (h *Handler) list(c *gin.Context) {
	page, limit := common.GetPaginationParams(c)
	messages, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{
		"messages":   messages,
		"total":      pagination.TotalItems,
		"page":       pagination.CurrentPage,
		"limit":      pagination.PageSize,
		"totalPages": pagination.TotalPages,
	})
}
