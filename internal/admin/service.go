package admin

import (
	"context"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GrowthWindowDays is the length of the dashboard growth series.
const GrowthWindowDays = 30

const dateLayout = "2006-01-02"

// Service computes admin dashboard views.
type Service struct {
	users   user.Repository
	lessons lesson.Repository
	reports report.Repository
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
}

// NewService creates a new admin service.
func NewService(users user.Repository, lessons lesson.Repository, reports report.Repository, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		lessons: lessons,
		reports: reports,
		logger:  logger,
		now:     time.Now,
		loc:     time.Local,
	}
}

func (s *Service) midnight() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Stats runs every dashboard query concurrently.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	today := s.midnight()
	windowStart := today.AddDate(0, 0, -(GrowthWindowDays - 1))

	var (
		stats       Stats
		lessonStamp []time.Time
		userStamp   []time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalLessons, err = s.lessons.CountActive(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.PublicLessons, err = s.lessons.CountActive(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalReports, err = s.reports.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayLessons, err = s.lessons.CountCreatedSince(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		lessonStamp, err = s.lessons.CreatedSince(gctx, windowStart)
		return err
	})
	g.Go(func() (err error) {
		userStamp, err = s.users.CreatedSince(gctx, windowStart)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to compute admin stats", zap.Error(err))
		return nil, err
	}

	stats.LessonGrowth = s.series(windowStart, lessonStamp)
	stats.UserGrowth = s.series(windowStart, userStamp)
	return &stats, nil
}

// series buckets stamps by local calendar day over the window, zero-filling empty days.
func (s *Service) series(start time.Time, stamps []time.Time) []DailyCount {
	counts := make(map[string]int64, GrowthWindowDays)
	for _, ts := range stamps {
		counts[ts.In(s.loc).Format(dateLayout)]++
	}
	out := make([]DailyCount, GrowthWindowDays)
	for i := range out {
		day := start.AddDate(0, 0, i).Format(dateLayout)
		out[i] = DailyCount{Date: day, Count: counts[day]}
	}
	return out
}

// Lessons lists live lessons with their report counts. The flagged filter is
// applied to the joined result, after the totals are taken.
func (s *Service) Lessons(ctx context.Context, q LessonsQuery) (*LessonsOverview, error) {
	var (
		lessons     []lesson.Lesson
		flags       map[uuid.UUID]int64
		total       int64
		publicTotal int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lessons, err = s.lessons.ListForAdmin(gctx, lesson.AdminFilter{Visibility: q.Visibility, Category: q.Category})
		return err
	})
	g.Go(func() (err error) {
		flags, err = s.reports.CountByLesson(gctx)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.lessons.CountActive(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		publicTotal, err = s.lessons.CountActive(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &LessonsOverview{
		Lessons: make([]LessonWithFlags, 0, len(lessons)),
		Totals: LessonTotals{
			Total:   total,
			Public:  publicTotal,
			Private: total - publicTotal,
			Flagged: int64(len(flags)),
		},
	}
	for _, l := range lessons {
		n := flags[l.ID]
		if (q.Flagged == "true" && n == 0) || (q.Flagged == "false" && n > 0) {
			continue
		}
		out.Lessons = append(out.Lessons, LessonWithFlags{Lesson: l, FlagsCount: n})
	}
	return out, nil
}
