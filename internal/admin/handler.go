package admin

import (
	"strings"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the admin dashboard and moderation routes.
type Handler struct {
	service *Service
	lessons lesson.Service
	reports report.Service
	logger  *zap.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(service *Service, lessons lesson.Service, reports report.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, lessons: lessons, reports: reports, logger: logger}
}

// RegisterRoutes mounts /admin. Every route requires an admin.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	adminGroup := router.Group("/admin", authMW, adminMW)
	{
		adminGroup.GET("/stats", h.stats)

		adminGroup.GET("/lessons", h.listLessons)
		adminGroup.PATCH("/lessons/:id/toggle-visibility", h.toggleVisibility)
		adminGroup.PATCH("/lessons/:id/featured", h.setFeatured)
		adminGroup.PATCH("/lessons/:id/reviewed", h.setReviewed)
		adminGroup.DELETE("/lessons/:id/hard-delete", h.hardDelete)

		adminGroup.GET("/reported-lessons", h.reportedLessons)
		adminGroup.DELETE("/reported-lessons/:lessonId", h.ignoreReports)
	}
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, stats)
}

func (h *Handler) listLessons(c *gin.Context) {
	q := LessonsQuery{
		Visibility: c.Query("visibility"),
		Category:   c.Query("category"),
		Flagged:    strings.ToLower(c.Query("flagged")),
	}
	overview, err := h.service.Lessons(c.Request.Context(), q)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, overview)
}

func (h *Handler) toggleVisibility(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	l, err := h.lessons.ToggleVisibility(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, l)
}

// bindFlag reads an optional {"value": bool} body. An empty body toggles.
func bindFlag(c *gin.Context) (*bool, bool) {
	var req lesson.FlagRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondBindError(c, err)
			return nil, false
		}
	}
	return req.Value, true
}

func (h *Handler) setFeatured(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	l, err := h.lessons.SetFeatured(c.Request.Context(), id, value)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, l)
}

func (h *Handler) setReviewed(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	l, err := h.lessons.SetReviewed(c.Request.Context(), id, value)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, l)
}

func (h *Handler) hardDelete(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.lessons.HardDelete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Lesson permanently deleted")
}

func (h *Handler) reportedLessons(c *gin.Context) {
	groups, err := h.reports.ReportedLessons(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, groups)
}

func (h *Handler) ignoreReports(c *gin.Context) {
	lessonID, err := common.ParseID(c.Param("lessonId"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	n, err := h.reports.IgnoreLesson(c.Request.Context(), lessonID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"message": "Reports ignored", "deletedCount": n})
}
