package model

import "time"

// LessonProgress is a completion record of one lesson by one user
type LessonProgress struct {
	PrincipalID int64      `json:"principal_id"`
	LessonID    int64      `json:"lesson_id"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SubcourseProgress is derived from lesson completions, never persisted
type SubcourseProgress struct {
	SubcourseID      int64   `json:"subcourse_id"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percentage       float64 `json:"percentage"`
}

// CompletionPercentage returns 100*completed/total clamped to [0,100], 0 when total is 0
func CompletionPercentage(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return 100 * float64(completed) / float64(total)
}
