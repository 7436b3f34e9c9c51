// File: internal/middleware/error.go
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery converts panics into the generic 500.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(RequestIDContextKey)),
					zap.ByteString("stack", debug.Stack()),
				)
				if !c.Writer.Written() {
					common.RespondWithError(c, fmt.Errorf("panic: %v", rec))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		common.RespondWithError(c, common.ErrNotFound)
	}
}

// MethodNotAllowed answers known routes called with the wrong verb.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		common.RespondWithError(c, common.ErrMethodNotAllowed)
	}
}
