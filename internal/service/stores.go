package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
)

// Clock возвращает текущее время. Подменяется в тестах.
type Clock func() time.Time

// SystemClock - настенные часы сервиса в UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// GrantStore - хранилище доступов (repository.GrantRepository)
type GrantStore interface {
	Create(ctx context.Context, g *model.AccessGrant) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error)
	Update(ctx context.Context, g *model.AccessGrant) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.GrantStatus) (bool, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	FindByScope(ctx context.Context, principalID int64, scope model.Scope) ([]*model.AccessGrant, error)
	ListByPrincipal(ctx context.Context, principalID int64) ([]*model.AccessGrant, error)
	ListEffectiveByPrincipal(ctx context.Context, principalID int64, now time.Time) ([]*model.AccessGrant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogStore - дерево контента (repository.CatalogRepository)
type CatalogStore interface {
	CreateProgram(ctx context.Context, p *model.Program) error
	GetProgramByID(ctx context.Context, id int64) (*model.Program, error)
	GetProgramBySlug(ctx context.Context, slug string) (*model.Program, error)
	ListPrograms(ctx context.Context, publishedOnly bool) ([]*model.Program, error)

	CreateSubcourse(ctx context.Context, s *model.Subcourse) error
	GetSubcourseByID(ctx context.Context, id int64) (*model.Subcourse, error)
	ListSubcoursesByProgram(ctx context.Context, programID int64, publishedOnly bool) ([]*model.Subcourse, error)
	ListSubcoursesByIDs(ctx context.Context, ids []int64) ([]*model.Subcourse, error)

	CreateLesson(ctx context.Context, l *model.Lesson) error
	GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error)
	ListLessonsBySubcourse(ctx context.Context, subcourseID int64, publishedOnly bool) ([]*model.Lesson, error)
	CountPublishedLessons(ctx context.Context, subcourseID int64) (int, error)

	SetStatus(ctx context.Context, kind model.ContentKind, id int64, status model.ContentStatus) error
}

// ProgressStore - отметки о прохождении уроков (repository.ProgressRepository)
type ProgressStore interface {
	MarkComplete(ctx context.Context, principalID, lessonID int64, at time.Time) (*model.LessonProgress, error)
	CountCompletedPublished(ctx context.Context, principalID, subcourseID int64) (int, error)
	ListCompletedLessonIDs(ctx context.Context, principalID, subcourseID int64) ([]int64, error)
}

// UserStore - пользователи (repository.UserRepository)
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}
