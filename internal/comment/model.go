package comment

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/google/uuid"
)

// Comment is an immutable remark on a lesson.
type Comment struct {
	common.BaseModel
	LessonID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lessonId"`
	UserName  string    `gorm:"type:varchar(255)" json:"userName"`
	UserEmail string    `gorm:"type:varchar(255);not null" json:"userEmail"`
	UserPhoto string    `gorm:"type:text" json:"userPhoto"`
	Text      string    `gorm:"type:text;not null" json:"text"`
}

// TableName specifies the table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}

// CreateCommentRequest is the body of POST /lessons/:id/comments.
type CreateCommentRequest struct {
	Text      string `json:"text" binding:"max=2000"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
}
