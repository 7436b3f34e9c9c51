package favorite

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the favorites endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new favorite handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /favorites. Every route requires authentication.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	favorites := router.Group("/favorites", authMW)
	{
		favorites.POST("", h.add)
		favorites.GET("", h.list)
		favorites.DELETE("/:id", h.remove)
	}
}

func (h *Handler) add(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	f, err := h.service.Add(c.Request.Context(), common.GetUserEmailFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, f)
}

func (h *Handler) list(c *gin.Context) {
	favorites, err := h.service.List(c.Request.Context(), common.GetUserEmailFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, favorites)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.Remove(c.Request.Context(), common.GetUserEmailFromContext(c), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Removed from favorites")
}
