// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Upsert(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmails(ctx context.Context, emails []string) (map[string]User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListWithLessonCounts(ctx context.Context) ([]UserWithLessonCount, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	DeleteByEmail(ctx context.Context, email string) error
	GrantPremium(ctx context.Context, grant PremiumGrant) (*User, error)
	Count(ctx context.Context) (int64, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type gormRepository struct {
	conn database.Conn
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(conn database.Conn) Repository {
	return &gormRepository{conn: conn}
}

// Upsert inserts the user or refreshes name, photo and updatedAt. Role and
// premium fields are only set on first insert.
func (r *gormRepository) Upsert(ctx context.Context, u *User) (*User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	u.Email = common.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = common.RoleUser
	}
	u.IsPremium = false
	u.UpdatedAt = time.Now()

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "photo_url", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", u.Email, err)
	}
	return r.FindByEmail(ctx, u.Email)
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var u User
	if err := db.Where("email = ?", common.NormalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithMessage("User not found")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// FindByEmails loads users keyed by email. Unknown emails are absent from the map.
func (r *gormRepository) FindByEmails(ctx context.Context, emails []string) (map[string]User, error) {
	out := make(map[string]User, len(emails))
	if len(emails) == 0 {
		return out, nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users by email: %w", err)
	}
	for _, u := range users {
		out[u.Email] = u
	}
	return out, nil
}

// FindByID retrieves a user by ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var u User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithMessage("User not found")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

type lessonCountRow struct {
	CreatorEmail string
	Total        int64
}

// ListWithLessonCounts returns all users newest first with their non-deleted lesson counts.
func (r *gormRepository) ListWithLessonCounts(ctx context.Context) ([]UserWithLessonCount, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var rows []lessonCountRow
	err = db.Table("lessons").
		Select("creator_email, COUNT(*) AS total").
		Where("is_deleted = ?", false).
		Group("creator_email").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count lessons per user: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CreatorEmail] = row.Total
	}

	out := make([]UserWithLessonCount, len(users))
	for i, u := range users {
		out[i] = UserWithLessonCount{User: u, LessonCount: counts[u.Email]}
	}
	return out, nil
}

// UpdateRole sets a user's role.
func (r *gormRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithMessage("User not found")
	}
	return nil
}

// DeleteByEmail physically removes a user.
func (r *gormRepository) DeleteByEmail(ctx context.Context, email string) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	result := db.Where("email = ?", common.NormalizeEmail(email)).Delete(&User{})
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithMessage("User not found")
	}
	return nil
}

// GrantPremium marks the user premium, creating the record if needed.
// Re-applying the same grant leaves the same state.
func (r *gormRepository) GrantPremium(ctx context.Context, grant PremiumGrant) (*User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	email := common.NormalizeEmail(grant.Email)
	since := grant.Since
	txID := grant.TransactionID
	u := &User{
		Email:             email,
		Role:              common.RoleUser,
		IsPremium:         true,
		PremiumSince:      &since,
		LastTransactionID: &txID,
	}
	u.UpdatedAt = time.Now()

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_premium", "premium_since", "last_transaction_id", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("grant premium to %s: %w", email, err)
	}
	return r.FindByEmail(ctx, email)
}

// Count returns the number of users.
func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CreatedSince returns creation timestamps of users created at or after since.
func (r *gormRepository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var stamps []time.Time
	if err := db.Model(&User{}).Where("created_at >= ?", since).Pluck("created_at", &stamps).Error; err != nil {
		return nil, fmt.Errorf("user creation times: %w", err)
	}
	return stamps, nil
}
