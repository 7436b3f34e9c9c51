package elasticsearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ZapLogger is an adapter from zap.Logger to elastictransport.Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*ZapLogger)(nil)

// LogRoundTrip logs request metrics at debug level.
func (l *ZapLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	var statusCode int
	if res != nil {
		statusCode = res.StatusCode
	}
	l.logger.Debug("Elasticsearch RoundTrip",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
	return nil
}

func (l *ZapLogger) RequestBodyEnabled() bool  { return false }
func (l *ZapLogger) ResponseBodyEnabled() bool { return false }

// NewClient creates an Elasticsearch client and pings the cluster.
func NewClient(cfg *config.Config, logger *zap.Logger) (*elasticsearch.Client, error) {
	if !cfg.SearchEnabled() {
		return nil, fmt.Errorf("ELASTICSEARCH_URL is not configured")
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticsearchURL},
		Logger:    &ZapLogger{logger: logger.Named("elasticsearch_client")},
		// Retry on 429 TooManyRequests and gateway errors.
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
		MaxRetries: 5,
	})
	if err != nil {
		logger.Error("Error creating Elasticsearch client", zap.Error(err))
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}

	res, err := esClient.Info()
	if err != nil {
		logger.Error("Error pinging Elasticsearch", zap.Error(err))
		return nil, fmt.Errorf("esClient.Info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("elasticsearch client initialization", res)
	}

	logger.Info("Elasticsearch client initialized",
		zap.String("url", cfg.ElasticsearchURL),
		zap.String("es_version", elasticsearch.Version))
	return esClient, nil
}

// responseError turns an error response into a Go error, including the
// server's reason when the body can be decoded.
func responseError(op string, res *esapi.Response) error {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || body.Error.Reason == "" {
		return fmt.Errorf("%s: status %s", op, res.Status())
	}
	return fmt.Errorf("%s: status %s: %s: %s", op, res.Status(), body.Error.Type, body.Error.Reason)
}
