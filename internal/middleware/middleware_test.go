package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier map[string]*identity.Principal

func (s stubVerifier) Verify(_ context.Context, token string) (*identity.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, identity.ErrInvalidToken
}

type stubRoles map[string]string

func (s stubRoles) RoleOf(_ context.Context, email string) (string, error) {
	role, ok := s[email]
	if !ok {
		return "", ErrUnknownUser
	}
	return role, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	r := gin.New()
	r.Use(ZapLogger(logger), Recovery(logger))
	r.NoRoute(NotFound())

	authMW := Authenticate(stubVerifier{
		"admin-token": {Email: "admin@example.com", Subject: "a1"},
		"user-token":  {Email: "user@example.com", Subject: "u1"},
		"ghost-token": {Email: "ghost@example.com", Subject: "g1"},
	}, logger)
	adminMW := RequireRole(stubRoles{"admin@example.com": common.RoleAdmin, "user@example.com": common.RoleUser}, logger, common.RoleAdmin)

	r.GET("/me", authMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": common.GetUserEmailFromContext(c), "subject": common.GetSubjectFromContext(c)})
	})
	r.GET("/admin", authMW, adminMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": common.GetUserRoleFromContext(c)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_CollapsesFailuresTo401(t *testing.T) {
	r := newTestRouter()
	for _, header := range []string{"", "Bearer", "Token user-token", "Bearer a b", "Bearer forged"} {
		w := do(r, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.JSONEq(t, `{"message":"unauthorized"}`, w.Body.String())
	}
}

func TestAuthenticate_AttachesPrincipal(t *testing.T) {
	w := do(newTestRouter(), "/me", "bearer user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"user@example.com","subject":"u1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/admin", "Bearer admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer user-token").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer ghost-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
}

type failingRoles struct{}

func (failingRoles) RoleOf(context.Context, string) (string, error) {
	return "", errors.New("db down")
}

func TestRequireRole_LookupFailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(common.UserEmailKey, "a@b.com")
		c.Next()
	}, RequireRole(failingRoles{}, zap.NewNop(), common.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := do(r, "/x", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())

	w = do(r, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())
}
