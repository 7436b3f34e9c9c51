package favorite

import (
	"context"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for favorite business logic.
type Service interface {
	Add(ctx context.Context, email string, req AddFavoriteRequest) (*Favorite, error)
	List(ctx context.Context, email string) ([]WithLesson, error)
	Remove(ctx context.Context, email string, id uuid.UUID) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	lessons lesson.Service
	logger  *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new favorite service.
func NewService(repo Repository, lessons lesson.Service, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, lessons: lessons, logger: logger}
}

// Add saves a lesson for the caller and bumps its savedCount.
func (s *ServiceImplementation) Add(ctx context.Context, email string, req AddFavoriteRequest) (*Favorite, error) {
	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		return nil, common.ErrBadRequest.WithMessage("Invalid lesson id")
	}
	if _, err := s.lessons.GetActive(ctx, lessonID); err != nil {
		return nil, err
	}

	email = common.NormalizeEmail(email)
	exists, err := s.repo.Exists(ctx, lessonID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrConflict.WithMessage("Already in favorites")
	}

	f := &Favorite{LessonID: lessonID, UserEmail: email}
	if err := s.repo.Create(ctx, f); err != nil {
		// A concurrent add for the same pair trips the unique index.
		if dup, checkErr := s.repo.Exists(ctx, lessonID, email); checkErr == nil && dup {
			return nil, common.ErrConflict.WithMessage("Already in favorites")
		}
		return nil, err
	}
	if err := s.lessons.AdjustSavedCount(ctx, lessonID, 1); err != nil {
		return nil, err
	}
	s.logger.Debug("Favorite added", zap.String("lessonID", lessonID.String()), zap.String("email", email))
	return f, nil
}

// List returns the caller's favorites whose lessons are still live, newest first.
func (s *ServiceImplementation) List(ctx context.Context, email string) ([]WithLesson, error) {
	favorites, err := s.repo.ListByUser(ctx, common.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.LessonID)
	}
	lessons, err := s.lessons.FindByIDs(ctx, ids, false)
	if err != nil {
		return nil, err
	}

	out := make([]WithLesson, 0, len(favorites))
	for _, f := range favorites {
		l, ok := lessons[f.LessonID]
		if !ok {
			continue
		}
		out = append(out, WithLesson{Favorite: f, Lesson: l})
	}
	return out, nil
}

// Remove deletes one of the caller's favorites and decrements savedCount.
func (s *ServiceImplementation) Remove(ctx context.Context, email string, id uuid.UUID) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if f.UserEmail != common.NormalizeEmail(email) {
		return common.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.lessons.AdjustSavedCount(ctx, f.LessonID, -1)
}
