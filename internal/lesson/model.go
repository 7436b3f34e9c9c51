// File: internal/lesson/model.go
package lesson

import (
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/google/uuid"
)

// AccessLevel gates who may read a lesson's detail.
type AccessLevel string

const (
	AccessFree    AccessLevel = "free"
	AccessPremium AccessLevel = "premium"
)

// Visibility controls whether a lesson appears in public listings.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Defaults applied on create when the client omits a value.
const (
	DefaultCategory      = "Personal Growth"
	DefaultEmotionalTone = "Reflective"
)

// Sort orders accepted by the public listing.
const (
	SortNewest    = "newest"
	SortMostSaved = "most-saved"
)

// TopListSize is the size of the featured and most-saved lists.
const TopListSize = 6

// Lesson represents a life lesson post.
type Lesson struct {
	common.BaseModel
	Title            string      `gorm:"type:varchar(255);not null" json:"title"`
	Slug             string      `gorm:"type:varchar(320);uniqueIndex" json:"slug"`
	ShortDescription string      `gorm:"type:text;not null" json:"shortDescription"`
	Details          string      `gorm:"type:text" json:"details"`
	Category         string      `gorm:"type:varchar(100);index" json:"category"`
	EmotionalTone    string      `gorm:"type:varchar(100);index" json:"emotionalTone"`
	AccessLevel      AccessLevel `gorm:"type:varchar(20);not null" json:"accessLevel"`
	Visibility       Visibility  `gorm:"type:varchar(20);not null;index" json:"visibility"`
	CreatorEmail     string      `gorm:"type:varchar(255);not null;index" json:"creatorEmail"`
	CreatorName      string      `gorm:"type:varchar(255)" json:"creatorName"`
	CreatorPhotoURL  string      `gorm:"column:creator_photo_url;type:text" json:"creatorPhotoURL"`
	SavedCount       int64       `gorm:"not null;default:0" json:"savedCount"`
	LikesCount       int64       `gorm:"not null;default:0" json:"likesCount"`
	IsDeleted        bool        `gorm:"not null;default:false;index" json:"isDeleted"`
	IsFeatured       bool        `gorm:"not null;default:false" json:"isFeatured"`
	IsReviewed       bool        `gorm:"not null;default:false" json:"isReviewed"`

	// Likes is filled on detail reads only.
	Likes []string `gorm:"-" json:"likes,omitempty"`
}

// TableName specifies the table name for the Lesson model.
func (Lesson) TableName() string {
	return "lessons"
}

// IsPublic reports whether the lesson is listed publicly.
func (l *Lesson) IsPublic() bool {
	return l.Visibility == VisibilityPublic && !l.IsDeleted
}

// Preview strips the body of a premium lesson so it can appear in
// listings that skip the premium gate.
func (l *Lesson) Preview() {
	if l.AccessLevel == AccessPremium {
		l.Details = ""
	}
}

func previews(lessons []Lesson) []Lesson {
	for i := range lessons {
		lessons[i].Preview()
	}
	return lessons
}

// Like is one member of a lesson's likes set.
type Like struct {
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserEmail string    `gorm:"type:varchar(255);primaryKey"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Like model.
func (Like) TableName() string {
	return "lesson_likes"
}

// CreateLessonRequest is the body of POST /lessons. creatorEmail is never read from it.
type CreateLessonRequest struct {
	Title            string `json:"title" binding:"max=255"`
	ShortDescription string `json:"shortDescription"`
	Details          string `json:"details"`
	Category         string `json:"category" binding:"max=100"`
	EmotionalTone    string `json:"emotionalTone" binding:"max=100"`
	AccessLevel      string `json:"accessLevel" binding:"omitempty,oneof=free premium"`
	Visibility       string `json:"visibility" binding:"omitempty,oneof=public private"`
	CreatorName      string `json:"creatorName"`
	CreatorPhotoURL  string `json:"creatorPhotoURL"`
}

// UpdateLessonRequest holds the only fields PATCH /lessons/:id may change.
type UpdateLessonRequest struct {
	Title            *string `json:"title" binding:"omitempty,max=255"`
	ShortDescription *string `json:"shortDescription"`
	Details          *string `json:"details"`
	Category         *string `json:"category" binding:"omitempty,max=100"`
	EmotionalTone    *string `json:"emotionalTone" binding:"omitempty,max=100"`
	AccessLevel      *string `json:"accessLevel" binding:"omitempty,oneof=free premium"`
	Visibility       *string `json:"visibility" binding:"omitempty,oneof=public private"`
}

// PublicQuery filters the public listing.
type PublicQuery struct {
	Search   string
	Category string
	Tone     string
	Sort     string
	Page     int
	Limit    int
}

// AdminFilter narrows the admin listing.
type AdminFilter struct {
	Visibility string
	Category   string
}

// LikeResult is the response of the like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// FlagRequest sets an admin flag; a nil Value toggles it.
type FlagRequest struct {
	Value *bool `json:"value"`
}
