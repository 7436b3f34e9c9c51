package contact

import (
	"context"
	"strings"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"go.uber.org/zap"
)

// Service defines the interface for contact message logic.
type Service interface {
	Create(ctx context.Context, req CreateMessageRequest) (*Message, error)
	List(ctx context.Context, page, limit int) ([]Message, *common.Pagination, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new contact service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

func (s *ServiceImplementation) Create(ctx context.Context, req CreateMessageRequest) (*Message, error) {
	name := strings.TrimSpace(req.Name)
	body := strings.TrimSpace(req.Message)
	if name == "" || body == "" {
		return nil, common.ErrBadRequest.WithMessage("Name, email and message are required")
	}
	m := &Message{
		Name:    name,
		Email:   common.NormalizeEmail(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: body,
		Status:  StatusNew,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Contact message received", zap.String("from", m.Email), zap.String("messageID", m.ID.String()))
	return m, nil
}

func (s *ServiceImplementation) List(ctx context.Context, page, limit int) ([]Message, *common.Pagination, error) {
	page, limit = common.ClampPage(page, limit)
	messages, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}
	return messages, common.NewPagination(total, page, limit), nil
}
