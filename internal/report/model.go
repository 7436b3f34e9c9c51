package report

import (
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/google/uuid"
)

// Status is the moderation state of a report.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// DefaultReason is used when the reporter gives none.
const DefaultReason = "Other"

// Report is one abuse report against a lesson.
type Report struct {
	common.BaseModel
	LessonID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"lessonId"`
	Reason        string     `gorm:"type:varchar(255);not null" json:"reason"`
	Message       string     `gorm:"type:text" json:"message"`
	ReporterEmail string     `gorm:"type:varchar(255);not null;index" json:"reporterEmail"`
	Status        Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// TableName specifies the table name for the Report model.
func (Report) TableName() string {
	return "reports"
}

// CreateReportRequest is the body of POST /reports.
type CreateReportRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	Reason   string `json:"reason" binding:"max=255"`
	Message  string `json:"message"`
}

// Entry is one report inside a reported-lesson group, with the reporter's profile.
type Entry struct {
	ID            uuid.UUID  `json:"id"`
	Reason        string     `json:"reason"`
	Message       string     `json:"message"`
	ReporterEmail string     `json:"reporterEmail"`
	ReporterName  string     `json:"reporterName"`
	ReporterPhoto string     `json:"reporterPhoto"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// ReportedLesson groups all reports against one lesson.
type ReportedLesson struct {
	LessonID     uuid.UUID `json:"lessonId"`
	ReportCount  int       `json:"reportCount"`
	LessonExists bool      `json:"lessonExists"`
	Title        string    `json:"lessonTitle"`
	Visibility   string    `json:"visibility"`
	Category     string    `json:"category"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatorEmail string    `json:"creatorEmail"`
	Reports      []Entry   `json:"reports"`
}
