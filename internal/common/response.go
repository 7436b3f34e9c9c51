// File: internal/common/response.go
package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// LoggerKey is the gin context key under which the request middleware stores its logger.
const LoggerKey = "logger"

// MessageResponse is the body of mutations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithError is the single translator from errors to HTTP responses.
// Unknown errors are logged and replaced by the opaque 500.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get(LoggerKey); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
		}
		apiErr = ErrInternalServer
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// RespondBindError translates a ShouldBind* failure into a 400.
func RespondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		RespondWithError(c, NewValidationAPIError(ve))
		return
	}
	RespondWithError(c, ErrBadRequest.WithMessage("Invalid request body"))
}

// RespondOK sends a 200 OK response with data as the body.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 Created response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondMessage sends a 200 with a {"message": ...} body.
func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// PaginatedResponse is the body of paginated listings.
type PaginatedResponse struct {
	Items      interface{} `json:"lessons"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// RespondPaginated sends a JSON response for paginated data.
func RespondPaginated(c *gin.Context, items interface{}, p *Pagination) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Items:      items,
		Total:      p.TotalItems,
		Page:       p.CurrentPage,
		Limit:      p.PageSize,
		TotalPages: p.TotalPages,
	})
}
