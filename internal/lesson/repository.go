// File: internal/lesson/repository.go
package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for lesson data operations.
type Repository interface {
	Create(ctx context.Context, l *Lesson) error
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*Lesson, error)
	FindBySlug(ctx context.Context, slug string) (*Lesson, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID, includeDeleted bool) (map[uuid.UUID]Lesson, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Lesson, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, int64, error)
	ListTop(ctx context.Context, featuredOnly bool, order string, limit int) ([]Lesson, error)
	ListByCreator(ctx context.Context, email string) ([]Lesson, error)
	ListAll(ctx context.Context, includeDeleted bool) ([]Lesson, error)
	ListForAdmin(ctx context.Context, f AdminFilter) ([]Lesson, error)
	ToggleLike(ctx context.Context, id uuid.UUID, email string) (bool, error)
	LikesCount(ctx context.Context, id uuid.UUID) (int64, error)
	LikesOf(ctx context.Context, id uuid.UUID) ([]string, error)
	AdjustSavedCount(ctx context.Context, id uuid.UUID, delta int) error
	CountActive(ctx context.Context, publicOnly bool) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	InBatches(ctx context.Context, size int, fn func(batch []Lesson) error) error
}

const (
	orderNewest    = "created_at DESC"
	orderMostSaved = "saved_count DESC, created_at DESC"
)

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM lesson repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

// likeEscaper makes LIKE metacharacters match literally under ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func notFound() error {
	return common.ErrNotFound.WithMessage("Lesson not found")
}

// Create inserts a new lesson.
func (r *gormRepository) Create(ctx context.Context, l *Lesson) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(l).Error; err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

// FindByID retrieves a lesson by ID. Soft-deleted lessons are NotFound unless includeDeleted.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Where("id = ?", id)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	var l Lesson
	if err := query.First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return &l, nil
}

// FindBySlug retrieves a non-deleted lesson by slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var l Lesson
	if err := db.Where("slug = ? AND is_deleted = ?", slug, false).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("find lesson by slug: %w", err)
	}
	return &l, nil
}

// FindByIDs loads lessons keyed by id. Missing ids are absent from the map.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, includeDeleted bool) (map[uuid.UUID]Lesson, error) {
	out := make(map[uuid.UUID]Lesson, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Where("id IN ?", ids)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	var lessons []Lesson
	if err := query.Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("find lessons by id: %w", err)
	}
	for _, l := range lessons {
		out[l.ID] = l
	}
	return out, nil
}

// Update applies column updates to a non-deleted lesson and returns the fresh row.
func (r *gormRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := db.Model(&Lesson{}).Where("id = ? AND is_deleted = ?", id, false).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, notFound()
	}
	return r.FindByID(ctx, id, false)
}

// SoftDelete flips is_deleted. Already-deleted or missing lessons are NotFound.
func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&Lesson{}).Where("id = ? AND is_deleted = ?", id, false).Updates(map[string]interface{}{
		"is_deleted": true,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("soft delete lesson: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound()
	}
	return nil
}

// HardDelete physically removes the lesson and its likes, deleted or not.
func (r *gormRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&Lesson{})
		if result.Error != nil {
			return fmt.Errorf("hard delete lesson: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound()
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("delete lesson likes: %w", err)
		}
		return nil
	})
}

// ListPublic returns one page of public, non-deleted lessons and the total match count.
func (r *gormRepository) ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := db.Model(&Lesson{}).Where("visibility = ? AND is_deleted = ?", VisibilityPublic, false)
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Tone != "" {
		query = query.Where("emotional_tone = ?", q.Tone)
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(short_description) LIKE ? ESCAPE '\')`, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count public lessons: %w", err)
	}

	page, limit := common.ClampPage(q.Page, q.Limit)
	order := orderNewest
	if q.Sort == SortMostSaved {
		order = orderMostSaved
	}
	var lessons []Lesson
	err = query.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&lessons).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list public lessons: %w", err)
	}
	return lessons, total, nil
}

// ListTop returns up to limit public, non-deleted lessons in the given order.
func (r *gormRepository) ListTop(ctx context.Context, featuredOnly bool, order string, limit int) ([]Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Where("visibility = ? AND is_deleted = ?", VisibilityPublic, false)
	if featuredOnly {
		query = query.Where("is_featured = ?", true)
	}
	var lessons []Lesson
	if err := query.Order(order).Limit(limit).Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list top lessons: %w", err)
	}
	return lessons, nil
}

// ListByCreator returns a creator's non-deleted lessons, newest first.
func (r *gormRepository) ListByCreator(ctx context.Context, email string) ([]Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var lessons []Lesson
	err = db.Where("creator_email = ? AND is_deleted = ?", common.NormalizeEmail(email), false).
		Order(orderNewest).
		Find(&lessons).Error
	if err != nil {
		return nil, fmt.Errorf("list lessons by creator: %w", err)
	}
	return lessons, nil
}

// ListAll is the raw admin listing.
func (r *gormRepository) ListAll(ctx context.Context, includeDeleted bool) ([]Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Order(orderNewest)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	var lessons []Lesson
	if err := query.Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ListForAdmin returns non-deleted lessons narrowed by visibility and category.
func (r *gormRepository) ListForAdmin(ctx context.Context, f AdminFilter) ([]Lesson, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Where("is_deleted = ?", false)
	if f.Visibility != "" {
		query = query.Where("visibility = ?", f.Visibility)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	var lessons []Lesson
	if err := query.Order(orderNewest).Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list admin lessons: %w", err)
	}
	return lessons, nil
}

// ToggleLike adds or removes email from the lesson's likes set and moves
// likes_count in the same transaction. Returns the new liked state.
func (r *gormRepository) ToggleLike(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}
	var liked bool
	err = db.Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("lesson_id = ? AND user_email = ?", id, email).Delete(&Like{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			liked = false
			return tx.Model(&Lesson{}).
				Where("id = ? AND likes_count > 0", id).
				UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
		}
		if err := tx.Create(&Like{LessonID: id, UserEmail: email}).Error; err != nil {
			return err
		}
		liked = true
		return tx.Model(&Lesson{}).
			Where("id = ?", id).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return liked, nil
}

// LikesCount reads the stored likes_count.
func (r *gormRepository) LikesCount(ctx context.Context, id uuid.UUID) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var counts []int64
	if err := db.Model(&Lesson{}).Where("id = ?", id).Pluck("likes_count", &counts).Error; err != nil {
		return 0, fmt.Errorf("read likes count: %w", err)
	}
	if len(counts) == 0 {
		return 0, notFound()
	}
	return counts[0], nil
}

// LikesOf returns the emails in the lesson's likes set.
func (r *gormRepository) LikesOf(ctx context.Context, id uuid.UUID) ([]string, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	emails := []string{}
	if err := db.Model(&Like{}).Where("lesson_id = ?", id).Order("created_at").Pluck("user_email", &emails).Error; err != nil {
		return nil, fmt.Errorf("read likes: %w", err)
	}
	return emails, nil
}

// AdjustSavedCount moves saved_count by delta. Decrements only apply while
// the count is positive, so it never goes below zero.
func (r *gormRepository) AdjustSavedCount(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	query := db.Model(&Lesson{}).Where("id = ?", id)
	var expr clause.Expr
	if delta > 0 {
		expr = gorm.Expr("saved_count + ?", delta)
	} else {
		query = query.Where("saved_count > 0")
		expr = gorm.Expr("CASE WHEN saved_count + ? < 0 THEN 0 ELSE saved_count + ? END", delta, delta)
	}
	if err := query.UpdateColumn("saved_count", expr).Error; err != nil {
		return fmt.Errorf("adjust saved count: %w", err)
	}
	return nil
}

// CountActive counts non-deleted lessons, optionally only public ones.
func (r *gormRepository) CountActive(ctx context.Context, publicOnly bool) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	query := db.Model(&Lesson{}).Where("is_deleted = ?", false)
	if publicOnly {
		query = query.Where("visibility = ?", VisibilityPublic)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return n, nil
}

// CountCreatedSince counts lessons created at or after since, soft-deleted ones included.
func (r *gormRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&Lesson{}).Where("created_at >= ?", since).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count new lessons: %w", err)
	}
	return n, nil
}

// CreatedSince returns creation timestamps of lessons created at or after since.
func (r *gormRepository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var stamps []time.Time
	if err := db.Model(&Lesson{}).Where("created_at >= ?", since).Pluck("created_at", &stamps).Error; err != nil {
		return nil, fmt.Errorf("lesson creation times: %w", err)
	}
	return stamps, nil
}

// InBatches walks all non-deleted lessons in id order.
func (r *gormRepository) InBatches(ctx context.Context, size int, fn func(batch []Lesson) error) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	var batch []Lesson
	result := db.Where("is_deleted = ?", false).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	if result.Error != nil {
		return fmt.Errorf("iterate lessons: %w", result.Error)
	}
	return nil
}
