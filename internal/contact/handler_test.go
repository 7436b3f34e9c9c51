package contact

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, admin bool) *gin.Engine {
	t.Helper()
	db := dbtest.New(t, &Message{})
	svc := NewService(NewGORMRepository(database.Static(db)), zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	adminMW := pass
	if !admin {
		adminMW = func(c *gin.Context) { common.RespondWithError(c, common.ErrForbidden) }
	}
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r, pass, adminMW)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact-messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	r := newTestRouter(t, true)

	w := post(r, `{"name":"Ana","email":"Ana@Example.com","subject":"Hi","message":"Hello there"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var m Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "ana@example.com", m.Email)
	assert.Equal(t, StatusNew, m.Status)

	req := httptest.NewRequest(http.MethodGet, "/admin/contact-messages", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Messages []Message `json:"messages"`
		Total    int64     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "Hello there", page.Messages[0].Message)
}

func TestCreate_Validation(t *testing.T) {
	r := newTestRouter(t, true)

	cases := map[string]string{
		"missing name":    `{"email":"a@example.com","message":"m"}`,
		"bad email":       `{"name":"A","email":"nope","message":"m"}`,
		"missing message": `{"name":"A","email":"a@example.com"}`,
		"blank name":      `{"name":"   ","email":"a@example.com","message":"m"}`,
		"not json":        `name=A`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := post(r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestList_RequiresAdmin(t *testing.T) {
	r := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/admin/contact-messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
