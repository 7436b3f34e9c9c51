package favorite

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"

	"github.com/google/uuid"
)

// Favorite is a lesson saved by a user.
type Favorite struct {
	common.BaseModel
	LessonID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_lesson_user" json:"lessonId"`
	UserEmail string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_favorites_lesson_user;index" json:"userEmail"`
}

// TableName specifies the table name for the Favorite model.
func (Favorite) TableName() string {
	return "favorites"
}

// AddFavoriteRequest is the body of POST /favorites.
type AddFavoriteRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

// WithLesson is a favorite joined to its lesson.
type WithLesson struct {
	Favorite
	Lesson lesson.Lesson `json:"lesson"`
}
