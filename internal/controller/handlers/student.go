package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ============ Команды ============

// HandleCourses обрабатывает команду /courses
func (h *Handlers) HandleCourses(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text, keyboard, err := h.coursesScreen(ctx, user)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Failed to build courses screen")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleLessons обрабатывает команду /lessons <subcourse_id>
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	subcourseID, err := parseID(commandArgs(update.Message.Text), UsageLessons)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Invalid command arguments")
		return
	}

	text, keyboard, err := h.lessonsScreen(ctx, user, subcourseID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Failed to show lessons")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleLesson обрабатывает команду /lesson <lesson_id>
func (h *Handlers) HandleLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	lessonID, err := parseID(commandArgs(update.Message.Text), UsageLesson)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Invalid command arguments")
		return
	}

	text, keyboard, err := h.lessonScreen(ctx, user, lessonID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Failed to show lesson")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleDone обрабатывает команду /done <lesson_id>
func (h *Handlers) HandleDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	lessonID, err := parseID(commandArgs(update.Message.Text), UsageDone)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Invalid command arguments")
		return
	}

	text, keyboard, err := h.completeLesson(ctx, user, lessonID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Failed to complete lesson")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleProgress обрабатывает команду /progress <subcourse_id>
func (h *Handlers) HandleProgress(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	subcourseID, err := parseID(commandArgs(update.Message.Text), UsageProgress)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Invalid command arguments")
		return
	}

	text, err := h.progressScreen(ctx, user, subcourseID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, user, err, "Failed to show progress")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, nil)
}

// ============ Экраны ============

// coursesScreen собирает доступные подкурсы с прогрессом
func (h *Handlers) coursesScreen(ctx context.Context, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	subcourses, err := h.resolver.AccessibleSubcourses(ctx, user, nil)
	if err != nil {
		return "", nil, fmt.Errorf("accessible subcourses: %w", err)
	}

	items := make([]courseItem, 0, len(subcourses))
	for _, sc := range subcourses {
		// Черновики видят только администраторы
		if !sc.IsPublished() && !user.IsAdmin() {
			continue
		}

		progress, err := h.progressService.SubcourseProgress(ctx, user.ID, sc.ID)
		if err != nil {
			return "", nil, fmt.Errorf("subcourse progress: %w", err)
		}
		items = append(items, courseItem{Subcourse: sc, Progress: progress})
	}

	text, keyboard := buildCoursesScreen(items)
	return text, keyboard, nil
}

// lessonsScreen собирает уроки подкурса, если к нему есть доступ
func (h *Handlers) lessonsScreen(ctx context.Context, user *model.User, subcourseID int64) (string, *models.InlineKeyboardMarkup, error) {
	subcourse, err := h.accessibleSubcourse(ctx, user, subcourseID)
	if err != nil {
		return "", nil, err
	}

	lessons, err := h.catalogService.ListPublishedLessons(ctx, subcourseID)
	if err != nil {
		return "", nil, err
	}

	completed, err := h.progressService.CompletedLessonIDs(ctx, user.ID, subcourseID)
	if err != nil {
		return "", nil, err
	}

	progress, err := h.progressService.SubcourseProgress(ctx, user.ID, subcourseID)
	if err != nil {
		return "", nil, err
	}

	text, keyboard := buildLessonsScreen(subcourse, lessons, completed, progress)
	return text, keyboard, nil
}

// lessonScreen собирает экран урока, если к нему есть доступ
func (h *Handlers) lessonScreen(ctx context.Context, user *model.User, lessonID int64) (string, *models.InlineKeyboardMarkup, error) {
	if err := h.resolver.RequireLessonAccess(ctx, user, lessonID); err != nil {
		return "", nil, err
	}

	lesson, err := h.catalogService.GetLesson(ctx, lessonID)
	if err != nil {
		return "", nil, err
	}
	if !lesson.IsPublished() && !user.IsAdmin() {
		return "", nil, fmt.Errorf("lesson %d: %w", lessonID, model.ErrNotFound)
	}

	completed, err := h.progressService.CompletedLessonIDs(ctx, user.ID, lesson.SubcourseID)
	if err != nil {
		return "", nil, err
	}

	text, keyboard := buildLessonScreen(lesson, completed[lesson.ID])
	return text, keyboard, nil
}

// completeLesson отмечает урок и собирает ответ с прогрессом
func (h *Handlers) completeLesson(ctx context.Context, user *model.User, lessonID int64) (string, *models.InlineKeyboardMarkup, error) {
	if _, err := h.progressService.MarkComplete(ctx, user, lessonID); err != nil {
		return "", nil, err
	}

	lesson, err := h.catalogService.GetLesson(ctx, lessonID)
	if err != nil {
		return "", nil, err
	}

	progress, err := h.progressService.SubcourseProgress(ctx, user.ID, lesson.SubcourseID)
	if err != nil {
		return "", nil, err
	}

	h.logger.Info("Lesson marked via bot",
		zap.Int64("user_id", user.ID),
		zap.Int64("lesson_id", lessonID),
		zap.Float64("percentage", progress.Percentage),
	)

	text, keyboard := buildCompletedScreen(lesson, progress)
	return text, keyboard, nil
}

// progressScreen собирает прогресс по подкурсу
func (h *Handlers) progressScreen(ctx context.Context, user *model.User, subcourseID int64) (string, error) {
	subcourse, err := h.accessibleSubcourse(ctx, user, subcourseID)
	if err != nil {
		return "", err
	}

	progress, err := h.progressService.SubcourseProgress(ctx, user.ID, subcourseID)
	if err != nil {
		return "", err
	}

	return buildProgressScreen(subcourse, progress), nil
}

// accessibleSubcourse проверяет доступ и возвращает подкурс.
// Сначала доступ: отказ не раскрывает, существует ли подкурс.
func (h *Handlers) accessibleSubcourse(ctx context.Context, user *model.User, subcourseID int64) (*model.Subcourse, error) {
	if err := h.resolver.RequireAccess(ctx, user, subcourseID); err != nil {
		return nil, err
	}

	subcourse, err := h.catalogService.GetSubcourse(ctx, subcourseID)
	if err != nil {
		return nil, err
	}
	if !subcourse.IsPublished() && !user.IsAdmin() {
		return nil, fmt.Errorf("subcourse %d: %w", subcourseID, model.ErrNotFound)
	}

	return subcourse, nil
}
