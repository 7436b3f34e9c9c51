// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Pagination describes one page of a listing.
type Pagination struct {
	TotalItems  int64
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// NewPagination creates a pagination object.
func NewPagination(totalItems int64, page, pageSize int) *Pagination {
	page, pageSize = ClampPage(page, pageSize)
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return &Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// Offset is the number of rows to skip for the current page.
func (p *Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PageSize
}

// ClampPage enforces page >= 1 and 1 <= limit <= MaxLimit.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// GetPaginationParams extracts page and limit from the query string.
func GetPaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil {
		page = DefaultPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		limit = DefaultLimit
	}
	return ClampPage(page, limit)
}
