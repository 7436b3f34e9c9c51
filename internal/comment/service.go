package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for comment business logic.
type Service interface {
	Create(ctx context.Context, email string, lessonID uuid.UUID, req CreateCommentRequest) (*Comment, error)
	List(ctx context.Context, lessonID uuid.UUID) ([]Comment, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	lessons lesson.Service
	users   user.Repository
	logger  *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new comment service.
func NewService(repo Repository, lessons lesson.Service, users user.Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, lessons: lessons, users: users, logger: logger}
}

// Create adds a comment from email to a lesson that email may view. The
// stored profile wins over names supplied in the body.
func (s *ServiceImplementation) Create(ctx context.Context, email string, lessonID uuid.UUID, req CreateCommentRequest) (*Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, common.ErrBadRequest.WithMessage("Comment text is required")
	}
	if _, err := s.lessons.GetViewable(ctx, lessonID, email); err != nil {
		return nil, err
	}

	email = common.NormalizeEmail(email)
	c := &Comment{
		LessonID:  lessonID,
		UserEmail: email,
		UserName:  strings.TrimSpace(req.UserName),
		UserPhoto: strings.TrimSpace(req.UserPhoto),
		Text:      text,
	}
	profile, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if profile.Name != "" {
			c.UserName = profile.Name
		}
		if profile.PhotoURL != "" {
			c.UserPhoto = profile.PhotoURL
		}
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the comments of a lesson an anonymous visitor may view,
// newest first.
func (s *ServiceImplementation) List(ctx context.Context, lessonID uuid.UUID) ([]Comment, error) {
	if _, err := s.lessons.GetViewable(ctx, lessonID, ""); err != nil {
		return nil, err
	}
	return s.repo.ListByLesson(ctx, lessonID)
}
