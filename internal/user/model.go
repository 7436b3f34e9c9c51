// File: internal/user/model.go
package user

import (
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name              string     `gorm:"type:varchar(255)" json:"name"`
	PhotoURL          string     `gorm:"column:photo_url;type:text" json:"photoURL"`
	Role              string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsPremium         bool       `gorm:"not null;default:false" json:"isPremium"`
	PremiumSince      *time.Time `json:"premiumSince,omitempty"`
	LastTransactionID *string    `gorm:"type:varchar(255)" json:"lastTransactionId,omitempty"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}

// UpsertUserRequest is the body of POST /users.
type UpsertUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"max=255"`
	PhotoURL string `json:"photoURL"`
}

// UpdateRoleRequest is the body of PATCH /admin/users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// UserWithLessonCount is a row of the admin user listing.
type UserWithLessonCount struct {
	User
	LessonCount int64 `json:"lessonCount"`
}

// PremiumGrant records a confirmed premium purchase.
type PremiumGrant struct {
	Email         string
	Since         time.Time
	TransactionID string
}
