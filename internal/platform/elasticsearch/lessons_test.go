package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(r *http.Request) (int, string)
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()

	status, payload := http.StatusOK, `{}`
	if f.respond != nil {
		status, payload = f.respond(r)
	}
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeCluster) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestIndexer(t *testing.T, cluster *fakeCluster) *LessonIndexer {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewLessonIndexerWithClient(client, zap.NewNop())
}

func sampleLesson() *lesson.Lesson {
	return &lesson.Lesson{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		Title:            "Patience",
		ShortDescription: "Waiting well",
		Category:         "Personal Growth",
		AccessLevel:      lesson.AccessFree,
		Visibility:       lesson.VisibilityPublic,
	}
}

func TestNewLessonIndexer_DisabledWithoutURL(t *testing.T) {
	indexer, err := NewLessonIndexer(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, indexer.Enabled())
	assert.IsType(t, lesson.NopIndexer{}, indexer)
}

func TestIndex_PutsDocumentByID(t *testing.T) {
	cluster := &fakeCluster{}
	indexer := newTestIndexer(t, cluster).WithRefresh("wait_for")
	l := sampleLesson()

	require.NoError(t, indexer.Index(context.Background(), l))

	req := cluster.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/lessons/_doc/"+l.ID.String(), req.Path)
	assert.Contains(t, req.Query, "refresh=wait_for")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Patience", doc["title"])
	assert.Equal(t, "public", doc["visibility"])
	assert.Equal(t, false, doc["isDeleted"])
}

func TestIndexBatch_WritesNDJSONAndReportsItemFailures(t *testing.T) {
	cluster := &fakeCluster{respond: func(r *http.Request) (int, string) {
		return http.StatusOK, `{"errors":true,"items":[{"index":{"_id":"a","status":201}},{"index":{"_id":"b","status":400}}]}`
	}}
	indexer := newTestIndexer(t, cluster)
	lessons := []lesson.Lesson{*sampleLesson(), *sampleLesson()}

	err := indexer.IndexBatch(context.Background(), lessons)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")

	req := cluster.last()
	assert.Equal(t, "/_bulk", req.Path)
	lines := strings.Split(strings.TrimSpace(req.Body), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], lessons[0].ID.String())
	assert.Contains(t, lines[2], lessons[1].ID.String())
}

func TestIndexBatch_EmptyIsNoop(t *testing.T) {
	cluster := &fakeCluster{}
	indexer := newTestIndexer(t, cluster)

	require.NoError(t, indexer.IndexBatch(context.Background(), nil))
	assert.Empty(t, cluster.requests)
}

func TestRemove_IgnoresMissingDocument(t *testing.T) {
	cluster := &fakeCluster{respond: func(r *http.Request) (int, string) {
		return http.StatusNotFound, `{"result":"not_found"}`
	}}
	indexer := newTestIndexer(t, cluster)
	id := uuid.New()

	require.NoError(t, indexer.Remove(context.Background(), id))
	assert.Equal(t, http.MethodDelete, cluster.last().Method)
	assert.Equal(t, "/lessons/_doc/"+id.String(), cluster.last().Path)
}

func TestSearch_ParsesHitsAndFiltersPublic(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	cluster := &fakeCluster{respond: func(r *http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"hits":[{"_id":"` + first.String() + `"},{"_id":"legacy-1"},{"_id":"` + second.String() + `"}]}}`
	}}
	indexer := newTestIndexer(t, cluster)

	ids, err := indexer.Search(context.Background(), "patience", 5)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)

	req := cluster.last()
	assert.Equal(t, "/lessons/_search", req.Path)
	assert.Contains(t, req.Body, `"query":"patience"`)
	assert.Contains(t, req.Body, `"visibility":"public"`)
	assert.Contains(t, req.Body, `"isDeleted":false`)
	assert.Contains(t, req.Body, `"size":5`)
}

func TestSearch_ErrorStatusSurfacesReason(t *testing.T) {
	cluster := &fakeCluster{respond: func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"parsing_exception","reason":"bad query"}}`
	}}
	indexer := newTestIndexer(t, cluster)

	_, err := indexer.Search(context.Background(), "x", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}
