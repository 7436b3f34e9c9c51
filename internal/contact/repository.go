package contact

import (
	"context"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
)

// Repository defines the interface for contact message storage.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context, offset, limit int) ([]Message, int64, error)
}

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM contact message repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) Create(ctx context.Context, m *Message) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// List returns one page of messages, newest first, and the total count.
func (r *gormRepository) List(ctx context.Context, offset, limit int) ([]Message, int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Model(&Message{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}
	messages := []Message{}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, total, nil
}
