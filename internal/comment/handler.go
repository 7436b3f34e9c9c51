package comment

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves lesson comments.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new comment handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the comment routes under /lessons/:id.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	router.GET("/lessons/:id/comments", h.list)
	router.POST("/lessons/:id/comments", authMW, h.create)
}

func (h *Handler) list(c *gin.Context) {
	lessonID, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	comments, err := h.service.List(c.Request.Context(), lessonID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, comments)
}

func (h *Handler) create(c *gin.Context) {
	lessonID, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	comment, err := h.service.Create(c.Request.Context(), common.GetUserEmailFromContext(c), lessonID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, comment)
}
