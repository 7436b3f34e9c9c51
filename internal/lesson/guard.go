package lesson

import (
	"errors"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// lessonContextKey holds the lesson loaded by requireOwner.
const lessonContextKey = "lesson"

// requireOwner loads the :id lesson and lets the request through only for
// its creator or an admin. Must run after authentication.
func (h *Handler) requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := common.ParseID(c.Param("id"))
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		l, err := h.service.GetActive(c.Request.Context(), id)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}

		email := common.GetUserEmailFromContext(c)
		if l.CreatorEmail != email {
			role, err := h.roles.RoleOf(c.Request.Context(), email)
			if err != nil && !errors.Is(err, middleware.ErrUnknownUser) {
				common.RespondWithError(c, err)
				return
			}
			if role != common.RoleAdmin {
				h.logger.Warn("Lesson ownership check failed",
					zap.String("lessonID", l.ID.String()),
					zap.String("email", email),
				)
				common.RespondWithError(c, common.ErrForbidden)
				return
			}
		}

		c.Set(lessonContextKey, l)
		c.Next()
	}
}

func ownedLesson(c *gin.Context) *Lesson {
	if v, ok := c.Get(lessonContextKey); ok {
		if l, ok := v.(*Lesson); ok {
			return l
		}
	}
	return nil
}
