package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// LessonsIndexName is the index holding searchable lesson documents.
const LessonsIndexName = "lessons"

func lessonsMapping() map[string]interface{} {
	text := map[string]interface{}{"type": "text"}
	keyword := map[string]interface{}{"type": "keyword"}
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":            text,
				"shortDescription": text,
				"details":          text,
				"category":         keyword,
				"emotionalTone":    keyword,
				"accessLevel":      keyword,
				"visibility":       keyword,
				"creatorEmail":     keyword,
				"isDeleted":        map[string]interface{}{"type": "boolean"},
				"createdAt":        map[string]interface{}{"type": "date"},
			},
		},
	}
}

// EnsureLessonsIndex creates the lessons index with its mapping if it does not already exist.
func EnsureLessonsIndex(ctx context.Context, client *elasticsearch.Client, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{LessonsIndexName}}.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("check lessons index: %w", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Debug("Lessons index already exists", zap.String("index_name", LessonsIndexName))
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check lessons index: status %s", res.Status())
	}

	body, err := json.Marshal(lessonsMapping())
	if err != nil {
		return fmt.Errorf("marshal lessons mapping: %w", err)
	}
	createRes, err := esapi.IndicesCreateRequest{
		Index: LessonsIndexName,
		Body:  bytes.NewReader(body),
	}.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("create lessons index: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return responseError("create lessons index", createRes)
	}

	log.Info("Lessons index created", zap.String("index_name", LessonsIndexName))
	return nil
}
