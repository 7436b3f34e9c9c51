// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhmasum1/digital-life-lessons-server/internal/app"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	platformElasticsearch "github.com/mhmasum1/digital-life-lessons-server/internal/platform/elasticsearch"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/logger"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"go.uber.org/zap"
)

func main() {
	syncLessonsCmd := flag.NewFlagSet("sync-lessons", flag.ExitOnError)
	batchSize := syncLessonsCmd.Int("batch-size", 500, "Batch size for syncing lessons")
	esRefresh := syncLessonsCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-lessons" {
		if err := syncLessonsCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		if err := runLessonSync(*batchSize, *esRefresh); err != nil {
			log.Fatalf("FATAL: Lesson synchronization failed: %v", err)
		}
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
}

// runLessonSync bulk-reindexes every non-deleted lesson into Elasticsearch.
func runLessonSync(batchSize int, esRefresh string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if !cfg.SearchEnabled() {
		return fmt.Errorf("ELASTICSEARCH_URL must be set to sync lessons")
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx := context.Background()
	db := database.NewLazy(cfg, appLogger, app.Migrate)
	defer db.Close()

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		return err
	}
	if err := platformElasticsearch.EnsureLessonsIndex(ctx, esClient, appLogger); err != nil {
		return err
	}
	indexer := platformElasticsearch.NewLessonIndexerWithClient(esClient, appLogger).WithRefresh(esRefresh)

	lessons := lesson.NewService(lesson.NewGORMRepository(db), user.NewGORMRepository(db), indexer, appLogger)

	appLogger.Info("Starting lesson synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)
	synced, err := lessons.Reindex(ctx, batchSize)
	if err != nil {
		appLogger.Error("Lesson synchronization stopped", zap.Int("synced", synced), zap.Error(err))
		return err
	}
	appLogger.Info("Lesson synchronization completed successfully.", zap.Int("synced", synced))
	return nil
}
