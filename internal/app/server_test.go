package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhmasum1/digital-life-lessons-server/internal/admin"
	"github.com/mhmasum1/digital-life-lessons-server/internal/comment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/contact"
	"github.com/mhmasum1/digital-life-lessons-server/internal/favorite"
	"github.com/mhmasum1/digital-life-lessons-server/internal/identity"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"
	"github.com/mhmasum1/digital-life-lessons-server/internal/payment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	cfg := &config.Config{
		AuthProvider: config.AuthProviderJWT,
		JWTSecretKey: "test-secret",
		SiteDomain:   "https://lessons.example.com",
		PremiumPrice: 1500,
	}

	db := dbtest.New(t, Models()...)
	conn := database.Static(db)

	userRepo := user.NewGORMRepository(conn)
	lessonRepo := lesson.NewGORMRepository(conn)
	reportRepo := report.NewGORMRepository(conn)

	userService := user.NewService(userRepo, logger)
	lessonService := lesson.NewService(lessonRepo, userRepo, nil, logger)
	reportService := report.NewService(reportRepo, lessonService, userRepo, logger)
	jwtService := identity.NewJWTService(cfg, logger)

	handlers := Handlers{
		Identity: identity.NewHandler(jwtService, userService, logger),
		User:     user.NewHandler(userService, logger),
		Lesson:   lesson.NewHandler(lessonService, userService, logger),
		Comment:  comment.NewHandler(comment.NewService(comment.NewGORMRepository(conn), lessonService, userRepo, logger), logger),
		Favorite: favorite.NewHandler(favorite.NewService(favorite.NewGORMRepository(conn), lessonService, logger), logger),
		Report:   report.NewHandler(reportService, logger),
		Contact:  contact.NewHandler(contact.NewService(contact.NewGORMRepository(conn), logger), logger),
		Payment:  payment.NewHandler(payment.NewService(nil, userRepo, cfg, logger), logger),
		Admin:    admin.NewHandler(admin.NewService(userRepo, lessonRepo, reportRepo, logger), lessonService, reportService, logger),
	}
	router := NewRouter(cfg, logger, handlers,
		middleware.Authenticate(jwtService, logger),
		middleware.RequireRole(userService, logger, common.RoleAdmin),
	)
	return &testApp{router: router, db: db}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, email, name string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/users", "", gin.H{"email": email, "name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/jwt", "", gin.H{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok identity.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func TestRouter_HealthAndBanner(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())

	w = app.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestRouter_UnknownRouteAndWrongMethod(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())

	w = app.do(t, http.MethodDelete, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CORSAllowsSiteDomain(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/lessons/public", nil)
	req.Header.Set("Origin", "https://lessons.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, "https://lessons.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AuthenticatedFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "ana@example.com", "Ana")

	w := app.do(t, http.MethodPost, "/lessons", "", gin.H{"title": "T", "shortDescription": "S"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/lessons", token, gin.H{"title": "Patience", "shortDescription": "Wait well"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created lesson.Lesson
	decode(t, w, &created)
	assert.Equal(t, "ana@example.com", created.CreatorEmail)
	assert.Equal(t, "Ana", created.CreatorName)

	w = app.do(t, http.MethodGet, "/lessons/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Lessons []lesson.Lesson `json:"lessons"`
		Total   int64           `json:"total"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = app.do(t, http.MethodPost, "/favorites", token, gin.H{"lessonId": created.ID.String()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, app.db.Model(&user.User{}).Where("email = ?", "ana@example.com").Update("role", common.RoleAdmin).Error)

	w = app.do(t, http.MethodGet, "/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats admin.Stats
	decode(t, w, &stats)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalLessons)
	assert.Len(t, stats.LessonGrowth, admin.GrowthWindowDays)
}

func TestRouter_TokenForUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/jwt", "", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CheckoutWithoutProvider(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/create-checkout-session", "", gin.H{"email": "ana@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Payment provider not configured"}`, w.Body.String())
}
