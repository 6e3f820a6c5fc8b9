package model

import "time"

// ContentStatus is the publication state shared by programs, subcourses and lessons
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

// IsValid reports whether s is a known publication state
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentDraft, ContentPublished, ContentArchived:
		return true
	}
	return false
}

// ContentKind names a level of the catalog tree
type ContentKind string

const (
	KindProgram   ContentKind = "program"
	KindSubcourse ContentKind = "subcourse"
	KindLesson    ContentKind = "lesson"
)

// Program is the top level of the catalog (e.g. a LEGO kit curriculum)
type Program struct {
	ID          int64         `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	KitType     string        `json:"kit_type"`
	Status      ContentStatus `json:"status"`
	SortOrder   int           `json:"sort_order"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished checks if program is visible to students
func (p *Program) IsPublished() bool {
	return p.Status == ContentPublished
}

// Subcourse always belongs to exactly one Program
type Subcourse struct {
	ID             int64         `json:"id"`
	ProgramID      int64         `json:"program_id"`
	Slug           string        `json:"slug"`
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle"`
	Description    string        `json:"description"`
	CodingLanguage string        `json:"coding_language"`
	Status         ContentStatus `json:"status"`
	SortOrder      int           `json:"sort_order"`
	Price          int64         `json:"price"` // 0 = бесплатно
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// IsPublished checks if subcourse is visible to students
func (s *Subcourse) IsPublished() bool {
	return s.Status == ContentPublished
}

// Lesson is a leaf of the catalog
type Lesson struct {
	ID               int64         `json:"id"`
	SubcourseID      int64         `json:"subcourse_id"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Objective        string        `json:"objective"`
	ContentText      string        `json:"content_text"`
	VideoURL         string        `json:"video_url"`
	Status           ContentStatus `json:"status"`
	SortOrder        int           `json:"sort_order"`
	EstimatedMinutes *int          `json:"estimated_minutes"` // nil = не указано
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsPublished checks if lesson is visible to students
func (l *Lesson) IsPublished() bool {
	return l.Status == ContentPublished
}
