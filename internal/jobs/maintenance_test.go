package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type countingIndexer struct {
	lesson.NopIndexer
	enabled bool
	indexed int
}

func (c *countingIndexer) Enabled() bool { return c.enabled }

func (c *countingIndexer) IndexBatch(_ context.Context, lessons []lesson.Lesson) error {
	c.indexed += len(lessons)
	return nil
}

func newJob(t *testing.T, cfg *config.Config, indexer lesson.Indexer) (*MaintenanceJob, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t, &user.User{}, &lesson.Lesson{}, &lesson.Like{}, &report.Report{})
	conn := database.Static(db)
	users := user.NewGORMRepository(conn)
	lessons := lesson.NewService(lesson.NewGORMRepository(conn), users, indexer, zap.NewNop())
	reports := report.NewService(report.NewGORMRepository(conn), lessons, users, zap.NewNop())
	return NewMaintenanceJob(reports, lessons, zap.NewNop(), cfg), db
}

func seedResolved(t *testing.T, db *gorm.DB, resolvedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&report.Report{
		LessonID:      uuid.New(),
		Reason:        report.DefaultReason,
		ReporterEmail: "r@example.com",
		Status:        report.StatusResolved,
		ResolvedAt:    &resolvedAt,
	}).Error)
}

func TestRun_PurgesOldResolvedReports(t *testing.T) {
	job, db := newJob(t, &config.Config{ReportRetentionDays: 30}, nil)
	seedResolved(t, db, time.Now().Add(-45*24*time.Hour))
	seedResolved(t, db, time.Now().Add(-24*time.Hour))
	require.NoError(t, db.Create(&report.Report{
		LessonID: uuid.New(), Reason: "Spam", ReporterEmail: "r@example.com", Status: report.StatusPending,
	}).Error)

	job.Run(context.Background())

	var remaining int64
	require.NoError(t, db.Model(&report.Report{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestRun_ZeroRetentionKeepsEverything(t *testing.T) {
	job, db := newJob(t, &config.Config{}, nil)
	seedResolved(t, db, time.Now().Add(-400*24*time.Hour))

	job.Run(context.Background())

	var remaining int64
	require.NoError(t, db.Model(&report.Report{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestRun_ReindexesWhenSearchEnabled(t *testing.T) {
	indexer := &countingIndexer{enabled: true}
	job, db := newJob(t, &config.Config{}, indexer)
	for i := 0; i < 3; i++ {
		id := uuid.New()
		require.NoError(t, db.Create(&lesson.Lesson{
			Title:        "Lesson",
			Slug:         "lesson-" + id.String(),
			CreatorEmail: "a@example.com",
			AccessLevel:  lesson.AccessFree,
			Visibility:   lesson.VisibilityPublic,
		}).Error)
	}

	job.Run(context.Background())
	assert.Equal(t, 3, indexer.indexed)
}

func TestSetupAndStart_RejectsBadSchedule(t *testing.T) {
	job, _ := newJob(t, &config.Config{MaintenanceJobSchedule: "not a schedule"}, nil)
	assert.Error(t, job.SetupAndStart())
}

func TestSetupAndStart_EmptyScheduleIsSkipped(t *testing.T) {
	job, _ := newJob(t, &config.Config{}, nil)
	require.NoError(t, job.SetupAndStart())
	job.Stop()
}
