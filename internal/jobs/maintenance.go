// File: internal/jobs/maintenance.go
package jobs

import (
	"context"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reindexBatchSize = 500

// MaintenanceJob purges old resolved reports and resyncs the search index.
type MaintenanceJob struct {
	reports       report.Service
	lessons       lesson.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewMaintenanceJob creates a new MaintenanceJob.
func NewMaintenanceJob(reports report.Service, lessons lesson.Service, logger *zap.Logger, cfg *config.Config) *MaintenanceJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &MaintenanceJob{
		reports:       reports,
		lessons:       lessons,
		logger:        logger.Named("MaintenanceJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *MaintenanceJob) SetupAndStart() error {
	jobSpec := j.cfg.MaintenanceJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Maintenance job schedule not defined (MAINTENANCE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule maintenance job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Maintenance job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *MaintenanceJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	j.Run(ctx)
}

// Run performs one maintenance pass. Each step logs its own failure and the
// next step still runs.
func (j *MaintenanceJob) Run(ctx context.Context) {
	j.logger.Info("Starting maintenance job run...")

	if days := j.cfg.ReportRetentionDays; days > 0 {
		purged, err := j.reports.PurgeResolved(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			j.logger.Error("Purging resolved reports failed", zap.Error(err))
		} else {
			j.logger.Info("Purged resolved reports", zap.Int64("reports_purged", purged), zap.Int("retention_days", days))
		}
	}

	if j.lessons.SearchEnabled() {
		indexed, err := j.lessons.Reindex(ctx, reindexBatchSize)
		if err != nil {
			j.logger.Error("Lesson reindex failed", zap.Int("lessons_indexed", indexed), zap.Error(err))
		} else {
			j.logger.Info("Lesson reindex completed", zap.Int("lessons_indexed", indexed))
		}
	}

	j.logger.Info("Maintenance job run completed")
}

// Stop gracefully stops the cron scheduler.
func (j *MaintenanceJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping maintenance job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Maintenance job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Maintenance job scheduler stop timed out.")
	}
}
