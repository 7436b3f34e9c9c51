package report

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves /reports.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new report handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /reports. Filing needs authentication, the rest needs admin.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	reports := router.Group("/reports", authMW)
	{
		reports.POST("", h.create)
		reports.GET("", adminMW, h.list)
		reports.PATCH("/:id/resolve", adminMW, h.resolve)
		reports.DELETE("/:id", adminMW, h.delete)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	rep, err := h.service.Create(c.Request.Context(), common.GetUserEmailFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, rep)
}

func (h *Handler) list(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, reports)
}

func (h *Handler) resolve(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	rep, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, rep)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Report deleted")
}
