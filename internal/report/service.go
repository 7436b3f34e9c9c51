package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for report business logic.
type Service interface {
	Create(ctx context.Context, reporterEmail string, req CreateReportRequest) (*Report, error)
	List(ctx context.Context) ([]Report, error)
	Resolve(ctx context.Context, id uuid.UUID) (*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReportedLessons(ctx context.Context) ([]ReportedLesson, error)
	IgnoreLesson(ctx context.Context, lessonID uuid.UUID) (int64, error)
	CountByLesson(ctx context.Context) (map[uuid.UUID]int64, error)
	PurgeResolved(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	lessons lesson.Service
	users   user.Repository
	logger  *zap.Logger
	now     func() time.Time
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new report service.
func NewService(repo Repository, lessons lesson.Service, users user.Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, lessons: lessons, users: users, logger: logger, now: time.Now}
}

// Create files a pending report against a live lesson.
func (s *ServiceImplementation) Create(ctx context.Context, reporterEmail string, req CreateReportRequest) (*Report, error) {
	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		return nil, common.ErrBadRequest.WithMessage("Invalid lesson id")
	}
	if _, err := s.lessons.GetActive(ctx, lessonID); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = DefaultReason
	}
	rep := &Report{
		LessonID:      lessonID,
		Reason:        reason,
		Message:       req.Message,
		ReporterEmail: common.NormalizeEmail(reporterEmail),
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	s.logger.Info("Lesson reported",
		zap.String("lessonID", lessonID.String()),
		zap.String("reporter", rep.ReporterEmail),
		zap.String("reason", reason),
	)
	return rep, nil
}

func (s *ServiceImplementation) List(ctx context.Context) ([]Report, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImplementation) Resolve(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.repo.Resolve(ctx, id, s.now())
}

func (s *ServiceImplementation) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ReportedLessons groups reports by lesson, most reported first. Groups whose
// lesson is gone are kept with LessonExists=false.
func (s *ServiceImplementation) ReportedLessons(ctx context.Context) ([]ReportedLesson, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[uuid.UUID]*ReportedLesson)
	var order []uuid.UUID
	emailSet := make(map[string]struct{})
	for _, rep := range reports {
		g, ok := groups[rep.LessonID]
		if !ok {
			g = &ReportedLesson{LessonID: rep.LessonID}
			groups[rep.LessonID] = g
			order = append(order, rep.LessonID)
		}
		g.ReportCount++
		g.Reports = append(g.Reports, Entry{
			ID:            rep.ID,
			Reason:        rep.Reason,
			Message:       rep.Message,
			ReporterEmail: rep.ReporterEmail,
			Status:        rep.Status,
			CreatedAt:     rep.CreatedAt,
			ResolvedAt:    rep.ResolvedAt,
		})
		emailSet[rep.ReporterEmail] = struct{}{}
	}

	lessons, err := s.lessons.FindByIDs(ctx, order, true)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(emailSet))
	for e := range emailSet {
		emails = append(emails, e)
	}
	profiles, err := s.users.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	out := make([]ReportedLesson, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if l, ok := lessons[id]; ok {
			g.LessonExists = true
			g.Title = l.Title
			g.Visibility = string(l.Visibility)
			g.Category = l.Category
			g.IsDeleted = l.IsDeleted
			g.CreatorEmail = l.CreatorEmail
		}
		for i := range g.Reports {
			if p, ok := profiles[g.Reports[i].ReporterEmail]; ok {
				g.Reports[i].ReporterName = p.Name
				g.Reports[i].ReporterPhoto = p.PhotoURL
			}
		}
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportCount > out[j].ReportCount
	})
	return out, nil
}

// IgnoreLesson drops every report against a lesson.
func (s *ServiceImplementation) IgnoreLesson(ctx context.Context, lessonID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByLesson(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Lesson reports ignored", zap.String("lessonID", lessonID.String()), zap.Int64("deleted", n))
	return n, nil
}

func (s *ServiceImplementation) CountByLesson(ctx context.Context) (map[uuid.UUID]int64, error) {
	return s.repo.CountByLesson(ctx)
}

// PurgeResolved deletes reports resolved longer ago than olderThan.
func (s *ServiceImplementation) PurgeResolved(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.PurgeResolvedBefore(ctx, s.now().Add(-olderThan))
}
