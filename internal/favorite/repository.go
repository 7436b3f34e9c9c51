package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for favorite data operations.
type Repository interface {
	Create(ctx context.Context, f *Favorite) error
	Exists(ctx context.Context, lessonID uuid.UUID, email string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Favorite, error)
	ListByUser(ctx context.Context, email string) ([]Favorite, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM favorite repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) Create(ctx context.Context, f *Favorite) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(f).Error; err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

func (r *gormRepository) Exists(ctx context.Context, lessonID uuid.UUID, email string) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}
	var n int64
	err = db.Model(&Favorite{}).Where("lesson_id = ? AND user_email = ?", lessonID, email).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Favorite, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var f Favorite
	if err := db.First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithMessage("Favorite not found")
		}
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return &f, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, email string) ([]Favorite, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var favorites []Favorite
	if err := db.Where("user_email = ?", email).Order("created_at DESC").Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&Favorite{})
	if result.Error != nil {
		return fmt.Errorf("delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithMessage("Favorite not found")
	}
	return nil
}
