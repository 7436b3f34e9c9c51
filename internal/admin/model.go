package admin

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
)

// DailyCount is one day of a growth series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers    int64        `json:"totalUsers"`
	TotalLessons  int64        `json:"totalLessons"`
	PublicLessons int64        `json:"publicLessons"`
	TotalReports  int64        `json:"totalReports"`
	TodayLessons  int64        `json:"todayLessons"`
	LessonGrowth  []DailyCount `json:"lessonGrowth"`
	UserGrowth    []DailyCount `json:"userGrowth"`
}

// LessonWithFlags is a lesson with its report count.
type LessonWithFlags struct {
	lesson.Lesson
	FlagsCount int64 `json:"flagsCount"`
}

// LessonTotals are computed over every live lesson, ignoring the listing filters.
type LessonTotals struct {
	Total   int64 `json:"total"`
	Public  int64 `json:"public"`
	Private int64 `json:"private"`
	Flagged int64 `json:"flagged"`
}

// LessonsOverview is the body of GET /admin/lessons.
type LessonsOverview struct {
	Lessons []LessonWithFlags `json:"lessons"`
	Totals  LessonTotals      `json:"totals"`
}

// LessonsQuery filters GET /admin/lessons. Flagged is "", "true" or "false".
type LessonsQuery struct {
	Visibility string
	Category   string
	Flagged    string
}
