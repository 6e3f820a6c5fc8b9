package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"go.uber.org/zap"
)

// ProgressService отмечает пройденные уроки и считает процент прохождения подкурса
type ProgressService struct {
	progress ProgressStore
	catalog  CatalogStore
	resolver *AccessResolver
	clock    Clock
	logger   *zap.Logger
}

func NewProgressService(
	progress ProgressStore,
	catalog CatalogStore,
	resolver *AccessResolver,
	clock Clock,
	logger *zap.Logger,
) *ProgressService {
	if clock == nil {
		clock = SystemClock
	}
	return &ProgressService{
		progress: progress,
		catalog:  catalog,
		resolver: resolver,
		clock:    clock,
		logger:   logger,
	}
}

// MarkComplete отмечает урок пройденным. Повторная отметка сохраняет время первого прохождения.
func (s *ProgressService) MarkComplete(ctx context.Context, principal *model.User, lessonID int64) (*model.LessonProgress, error) {
	// Сначала доступ: отказ не должен раскрывать, существует ли урок
	if err := s.resolver.RequireLessonAccess(ctx, principal, lessonID); err != nil {
		return nil, err
	}

	lesson, err := s.catalog.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil || !lesson.IsPublished() {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, model.ErrNotFound)
	}

	progress, err := s.progress.MarkComplete(ctx, principal.ID, lessonID, s.clock())
	if err != nil {
		return nil, fmt.Errorf("mark complete: %w", err)
	}

	s.logger.Info("Lesson completed",
		zap.Int64("principal_id", principal.ID),
		zap.Int64("lesson_id", lessonID),
		zap.Timep("completed_at", progress.CompletedAt),
	)

	return progress, nil
}

// CompletionPercentage считает 100 * пройдено / опубликовано, 0 если уроков нет
func (s *ProgressService) CompletionPercentage(ctx context.Context, principalID, subcourseID int64) (float64, error) {
	progress, err := s.SubcourseProgress(ctx, principalID, subcourseID)
	if err != nil {
		return 0, err
	}
	return progress.Percentage, nil
}

// SubcourseProgress получает счётчики и процент прохождения подкурса
func (s *ProgressService) SubcourseProgress(ctx context.Context, principalID, subcourseID int64) (*model.SubcourseProgress, error) {
	total, err := s.catalog.CountPublishedLessons(ctx, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("count published lessons: %w", err)
	}

	result := &model.SubcourseProgress{SubcourseID: subcourseID, TotalLessons: total}
	if total == 0 {
		return result, nil
	}

	completed, err := s.progress.CountCompletedPublished(ctx, principalID, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}

	result.CompletedLessons = completed
	result.Percentage = model.CompletionPercentage(completed, total)
	return result, nil
}

// CompletedLessonIDs получает ID пройденных уроков подкурса
func (s *ProgressService) CompletedLessonIDs(ctx context.Context, principalID, subcourseID int64) (map[int64]bool, error) {
	ids, err := s.progress.ListCompletedLessonIDs(ctx, principalID, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("list completed lessons: %w", err)
	}

	completed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}
