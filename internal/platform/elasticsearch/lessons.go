package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type lessonDocument struct {
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Details          string    `json:"details"`
	Category         string    `json:"category"`
	EmotionalTone    string    `json:"emotionalTone"`
	AccessLevel      string    `json:"accessLevel"`
	Visibility       string    `json:"visibility"`
	CreatorEmail     string    `json:"creatorEmail"`
	IsDeleted        bool      `json:"isDeleted"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toDocument(l *lesson.Lesson) lessonDocument {
	return lessonDocument{
		Title:            l.Title,
		ShortDescription: l.ShortDescription,
		Details:          l.Details,
		Category:         l.Category,
		EmotionalTone:    l.EmotionalTone,
		AccessLevel:      string(l.AccessLevel),
		Visibility:       string(l.Visibility),
		CreatorEmail:     l.CreatorEmail,
		IsDeleted:        l.IsDeleted,
		CreatedAt:        l.CreatedAt,
	}
}

// LessonIndexer is the Elasticsearch-backed lesson.Indexer.
type LessonIndexer struct {
	client  *elasticsearch.Client
	logger  *zap.Logger
	refresh string
}

var _ lesson.Indexer = (*LessonIndexer)(nil)

// NewLessonIndexer returns a NopIndexer when search is not configured, otherwise
// connects to the cluster and makes sure the lessons index exists.
func NewLessonIndexer(cfg *config.Config, logger *zap.Logger) (lesson.Indexer, error) {
	if !cfg.SearchEnabled() {
		logger.Info("ELASTICSEARCH_URL not set, lesson search falls back to the database")
		return lesson.NopIndexer{}, nil
	}
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := EnsureLessonsIndex(context.Background(), client, logger); err != nil {
		return nil, err
	}
	return NewLessonIndexerWithClient(client, logger), nil
}

// NewLessonIndexerWithClient wraps an existing client without touching the cluster.
func NewLessonIndexerWithClient(client *elasticsearch.Client, logger *zap.Logger) *LessonIndexer {
	return &LessonIndexer{client: client, logger: logger.Named("lesson_indexer")}
}

// WithRefresh returns a copy whose writes carry the given refresh policy
// ("true", "false" or "wait_for").
func (x *LessonIndexer) WithRefresh(policy string) *LessonIndexer {
	clone := *x
	clone.refresh = policy
	return &clone
}

func (x *LessonIndexer) Enabled() bool { return true }

// Index upserts one lesson document keyed by the lesson id.
func (x *LessonIndexer) Index(ctx context.Context, l *lesson.Lesson) error {
	body, err := json.Marshal(toDocument(l))
	if err != nil {
		return fmt.Errorf("marshal lesson document: %w", err)
	}
	res, err := esapi.IndexRequest{
		Index:      LessonsIndexName,
		DocumentID: l.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    x.refresh,
	}.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("index lesson %s: %w", l.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index lesson "+l.ID.String(), res)
	}
	return nil
}

// IndexBatch writes lessons through the bulk API.
func (x *LessonIndexer) IndexBatch(ctx context.Context, lessons []lesson.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range lessons {
		meta := map[string]interface{}{
			"index": map[string]string{"_index": LessonsIndexName, "_id": lessons[i].ID.String()},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode bulk meta: %w", err)
		}
		if err := enc.Encode(toDocument(&lessons[i])); err != nil {
			return fmt.Errorf("encode bulk document: %w", err)
		}
	}

	res, err := esapi.BulkRequest{Body: &buf, Refresh: x.refresh}.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("bulk index lessons: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk index lessons", res)
	}

	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if result.Errors {
		failed := 0
		for _, item := range result.Items {
			for _, op := range item {
				if op.Status >= http.StatusBadRequest {
					failed++
				}
			}
		}
		return fmt.Errorf("bulk index lessons: %d of %d documents failed", failed, len(lessons))
	}
	x.logger.Debug("Bulk indexed lessons", zap.Int("count", len(lessons)))
	return nil
}

// Remove deletes a lesson document. A missing document is not an error.
func (x *LessonIndexer) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := esapi.DeleteRequest{
		Index:      LessonsIndexName,
		DocumentID: id.String(),
		Refresh:    x.refresh,
	}.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("delete lesson %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete lesson "+id.String(), res)
	}
	return nil
}

// Search runs a weighted multi_match restricted to public, non-deleted lessons.
func (x *LessonIndexer) Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	body, err := json.Marshal(map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"title^3", "shortDescription^2", "details"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"visibility": string(lesson.VisibilityPublic)}},
					map[string]interface{}{"term": map[string]interface{}{"isDeleted": false}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{LessonsIndexName},
		Body:  bytes.NewReader(body),
	}.Do(ctx, x.client)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search lessons", res)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			x.logger.Warn("Skipping search hit with foreign id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
