package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDirectory map[string]bool

func (d fakeDirectory) EmailExists(_ context.Context, email string) (bool, error) {
	return d[email], nil
}

func TestHandler_IssueToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestJWTService("s3cret")
	router := gin.New()
	NewHandler(svc, fakeDirectory{"known@example.com": true}, zap.NewNop()).RegisterRoutes(router)

	t.Run("known email", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"Known@Example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		p, err := svc.Verify(context.Background(), body.Token)
		require.NoError(t, err)
		assert.Equal(t, "known@example.com", p.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"ghost@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
