package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for report data operations.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	List(ctx context.Context) ([]Report, error)
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error)
	CountByLesson(ctx context.Context) (map[uuid.UUID]int64, error)
	Count(ctx context.Context) (int64, error)
	PurgeResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM report repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

func notFound() error {
	return common.ErrNotFound.WithMessage("Report not found")
}

func (r *gormRepository) Create(ctx context.Context, rep *Report) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(rep).Error; err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// List returns every report, newest first.
func (r *gormRepository) List(ctx context.Context) ([]Report, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var reports []Report
	if err := db.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (r *gormRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*Report, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	result := db.Model(&Report{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      StatusResolved,
		"resolved_at": at,
		"updated_at":  at,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, notFound()
	}
	var rep Report
	if err := db.First(&rep, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("reload report: %w", err)
	}
	return &rep, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&Report{})
	if result.Error != nil {
		return fmt.Errorf("delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound()
	}
	return nil
}

// DeleteByLesson removes every report against a lesson and returns how many went.
func (r *gormRepository) DeleteByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	result := db.Where("lesson_id = ?", lessonID).Delete(&Report{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete lesson reports: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type lessonCountRow struct {
	LessonID uuid.UUID
	Total    int64
}

// CountByLesson returns the number of reports per lesson id.
func (r *gormRepository) CountByLesson(ctx context.Context) (map[uuid.UUID]int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rows []lessonCountRow
	err = db.Model(&Report{}).
		Select("lesson_id, COUNT(*) AS total").
		Group("lesson_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count reports per lesson: %w", err)
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.LessonID] = row.Total
	}
	return out, nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Model(&Report{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// PurgeResolvedBefore deletes resolved reports resolved before cutoff.
func (r *gormRepository) PurgeResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	result := db.Where("status = ? AND resolved_at < ?", StatusResolved, cutoff).Delete(&Report{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge resolved reports: %w", result.Error)
	}
	return result.RowsAffected, nil
}
