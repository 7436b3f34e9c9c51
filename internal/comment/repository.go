package comment

import (
	"context"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"

	"github.com/google/uuid"
)

// Repository defines the interface for comment data operations.
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]Comment, error)
}

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM comment repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) Create(ctx context.Context, c *Comment) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *gormRepository) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]Comment, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	comments := []Comment{}
	if err := db.Where("lesson_id = ?", lessonID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
