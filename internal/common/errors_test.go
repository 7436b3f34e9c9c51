package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIError_WithMessageDoesNotMutateSharedValue(t *testing.T) {
	custom := ErrNotFound.WithMessage("Lesson not found")

	assert.Equal(t, "Lesson not found", custom.Message)
	assert.Equal(t, "Not found", ErrNotFound.Message)
	assert.Equal(t, http.StatusNotFound, custom.StatusCode)
	assert.True(t, errors.Is(custom, ErrNotFound))
	assert.False(t, errors.Is(custom, ErrForbidden))
}

func TestIsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading lesson: %w", ErrForbidden)

	apiErr, ok := IsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, ok = IsAPIError(errors.New("boom"))
	assert.False(t, ok)
}

func TestConflictMapsToBadRequest(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrConflict.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, ErrServiceUnavailable.StatusCode)
}

func TestRespondWithError_Bodies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"api error", ErrBadRequest.WithMessage("Already in favorites"), http.StatusBadRequest, `{"message":"Already in favorites"}`},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, `{"message":"unauthorized"}`},
		{"opaque 500", errors.New("connection reset"), http.StatusInternalServerError, `{"message":"Server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			RespondWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(12, 2, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.Offset())

	p = NewPagination(0, 0, 500)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, MaxLimit, p.PageSize)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", DefaultPage, DefaultLimit},
		{"page=3&limit=20", 3, 20},
		{"page=-1&limit=0", 1, DefaultLimit},
		{"page=abc&limit=999", 1, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/lessons/public?"+tt.query, nil)
			page, limit := GetPaginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
