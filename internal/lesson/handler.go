// File: internal/lesson/handler.go
package lesson

import (
	"strconv"
	"strings"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for lesson handlers.
type Handler struct {
	service Service
	roles   middleware.RoleLookup
	logger  *zap.Logger
}

// NewHandler creates a new lesson handler.
func NewHandler(service Service, roles middleware.RoleLookup, logger *zap.Logger) *Handler {
	return &Handler{service: service, roles: roles, logger: logger}
}

// RegisterRoutes sets up the routes for lesson operations.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	lessons := router.Group("/lessons")
	{
		lessons.GET("/public", h.listPublic)
		lessons.GET("/featured", h.featured)
		lessons.GET("/most-saved", h.mostSaved)
		lessons.GET("/search", h.search)

		lessons.POST("", authMW, h.create)
		lessons.GET("/my", authMW, h.listMine)
		lessons.DELETE("/my/:id", authMW, h.requireOwner(), h.softDeleteOwned)
		lessons.GET("/slug/:slug", authMW, h.getBySlug)
		lessons.GET("/:id", authMW, h.get)
		lessons.PATCH("/:id", authMW, h.requireOwner(), h.update)
		lessons.PATCH("/:id/like", authMW, h.toggleLike)
		lessons.POST("/:id/like", authMW, h.toggleLike)

		lessons.GET("", authMW, adminMW, h.listAll)
		lessons.DELETE("/:id", authMW, adminMW, h.adminSoftDelete)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create lesson: invalid request body", zap.Error(err))
		common.RespondBindError(c, err)
		return
	}
	l, err := h.service.Create(c.Request.Context(), common.GetUserEmailFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, l)
}

func (h *Handler) listMine(c *gin.Context) {
	principal := common.GetUserEmailFromContext(c)
	if requested := c.Query("email"); requested != "" && common.NormalizeEmail(requested) != principal {
		common.RespondWithError(c, common.ErrForbidden)
		return
	}
	lessons, err := h.service.ListMine(c.Request.Context(), principal)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, lessons)
}

func (h *Handler) softDeleteOwned(c *gin.Context) {
	l := ownedLesson(c)
	if l == nil {
		common.RespondWithError(c, common.ErrNotFound.WithMessage("Lesson not found"))
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), l.ID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Lesson deleted")
}

func (h *Handler) adminSoftDelete(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Lesson deleted")
}

func parseSort(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "most-saved", "mostsaved", "saved":
		return SortMostSaved
	default:
		return SortNewest
	}
}

func (h *Handler) listPublic(c *gin.Context) {
	page, limit := common.GetPaginationParams(c)
	q := PublicQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tone:     c.Query("tone"),
		Sort:     parseSort(c.Query("sort")),
		Page:     page,
		Limit:    limit,
	}
	lessons, pagination, err := h.service.ListPublic(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, lessons, pagination)
}

func (h *Handler) featured(c *gin.Context) {
	lessons, err := h.service.Featured(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, lessons)
}

func (h *Handler) mostSaved(c *gin.Context) {
	lessons, err := h.service.MostSaved(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, lessons)
}

func (h *Handler) search(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(common.DefaultLimit)))
	if err != nil {
		limit = common.DefaultLimit
	}
	lessons, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, lessons)
}

func (h *Handler) get(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	l, err := h.service.GetForViewer(c.Request.Context(), id, common.GetUserEmailFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, l)
}

func (h *Handler) getBySlug(c *gin.Context) {
	l, err := h.service.GetBySlugForViewer(c.Request.Context(), c.Param("slug"), common.GetUserEmailFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, l)
}

func (h *Handler) update(c *gin.Context) {
	l := ownedLesson(c)
	if l == nil {
		common.RespondWithError(c, common.ErrNotFound.WithMessage("Lesson not found"))
		return
	}
	var req UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), l.ID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, updated)
}

func (h *Handler) toggleLike(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	result, err := h.service.ToggleLike(c.Request.Context(), id, common.GetUserEmailFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result)
}

func (h *Handler) listAll(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("includeDeleted", "false"))
	lessons, err := h.service.ListAll(c.Request.Context(), includeDeleted)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, lessons)
}
