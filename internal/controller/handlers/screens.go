package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/lms_bot/internal/controller/formatting"
	"github.com/Freeeeeet/lms_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// courseItem - подкурс и прогресс по нему
type courseItem struct {
	Subcourse *model.Subcourse
	Progress  *model.SubcourseProgress
}

// buildCoursesScreen строит список доступных подкурсов
func buildCoursesScreen(items []courseItem) (string, *models.InlineKeyboardMarkup) {
	if len(items) == 0 {
		return "📚 У вас пока нет доступных курсов.\n\n" +
			"Доступ выдаёт администратор школы.", nil
	}

	var sb strings.Builder
	sb.WriteString("📚 <b>Мои курсы</b>\n\n")

	kb := keyboard.NewBuilder()
	for _, item := range items {
		sc := item.Subcourse
		sb.WriteString(fmt.Sprintf("• <b>%s</b> (#%d)\n", html.EscapeString(sc.Title), sc.ID))
		if sc.Subtitle != "" {
			sb.WriteString(fmt.Sprintf("  <i>%s</i>\n", html.EscapeString(sc.Subtitle)))
		}
		if item.Progress != nil {
			sb.WriteString(fmt.Sprintf("  %s\n", formatting.ProgressBar(item.Progress.Percentage)))
		}
		sb.WriteString("\n")

		kb.Row(keyboard.SubcourseButton("📖 "+sc.Title, sc.ID))
	}

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// buildLessonsScreen строит список уроков подкурса с отметками прохождения
func buildLessonsScreen(
	subcourse *model.Subcourse,
	lessons []*model.Lesson,
	completed map[int64]bool,
	progress *model.SubcourseProgress,
) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📖 <b>%s</b>\n", html.EscapeString(subcourse.Title)))
	if subcourse.CodingLanguage != "" {
		sb.WriteString(fmt.Sprintf("💻 %s\n", html.EscapeString(subcourse.CodingLanguage)))
	}
	if subcourse.Price > 0 {
		sb.WriteString(fmt.Sprintf("💰 %s\n", formatting.FormatPrice(subcourse.Price)))
	}
	// Неопубликованный подкурс виден только администратору
	if subcourse.Status.IsValid() && !subcourse.IsPublished() {
		status := formatting.GetContentStatusDisplay(subcourse.Status)
		sb.WriteString(fmt.Sprintf("%s %s\n", status.Emoji, status.Text))
	}
	if progress != nil {
		sb.WriteString(fmt.Sprintf("%s\n", formatting.ProgressBar(progress.Percentage)))
	}
	sb.WriteString("\n")

	kb := keyboard.NewBuilder()
	if len(lessons) == 0 {
		sb.WriteString("Уроков пока нет.")
	} else {
		sb.WriteString(fmt.Sprintf("%d %s:\n", len(lessons), formatting.PluralizeLessons(len(lessons))))
		for i, lesson := range lessons {
			mark := "▫️"
			if completed[lesson.ID] {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, html.EscapeString(lesson.Title)))
			kb.Row(keyboard.LessonButton(fmt.Sprintf("%s %d. %s", mark, i+1, lesson.Title), lesson.ID))
		}
	}
	kb.Row(keyboard.BackToCoursesButton())

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// buildLessonScreen строит экран урока
func buildLessonScreen(lesson *model.Lesson, completed bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 <b>%s</b>\n", html.EscapeString(lesson.Title)))
	if lesson.EstimatedMinutes != nil {
		sb.WriteString(fmt.Sprintf("⏱ %s\n", formatting.FormatDuration(*lesson.EstimatedMinutes)))
	}
	if lesson.Objective != "" {
		sb.WriteString(fmt.Sprintf("\n🎯 %s\n", html.EscapeString(lesson.Objective)))
	}
	if lesson.ContentText != "" {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(truncate(lesson.ContentText, MaxLessonTextLength)))
		sb.WriteString("\n")
	}
	if completed {
		sb.WriteString("\n✅ Урок пройден")
	}

	kb := keyboard.NewBuilder()
	if lesson.VideoURL != "" {
		kb.Row(keyboard.URLButton("▶️ Видео", lesson.VideoURL))
	}
	if !completed {
		kb.Row(keyboard.CompleteButton(lesson.ID))
	}
	kb.Row(keyboard.BackToSubcourseButton(lesson.SubcourseID))

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// buildCompletedScreen строит ответ на отметку урока
func buildCompletedScreen(lesson *model.Lesson, progress *model.SubcourseProgress) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("✅ Урок «%s» пройден!", html.EscapeString(lesson.Title))
	if progress != nil {
		text += fmt.Sprintf("\n\nПрогресс: %s\n%d из %d %s",
			formatting.ProgressBar(progress.Percentage),
			progress.CompletedLessons,
			progress.TotalLessons,
			formatting.PluralizeLessons(progress.TotalLessons),
		)
	}

	kb := keyboard.NewBuilder().Row(keyboard.BackToSubcourseButton(lesson.SubcourseID))
	return text, kb.Build()
}

// buildProgressScreen строит экран прогресса по подкурсу
func buildProgressScreen(subcourse *model.Subcourse, progress *model.SubcourseProgress) string {
	if progress.TotalLessons == 0 {
		return fmt.Sprintf("📊 <b>%s</b>\n\nВ подкурсе пока нет опубликованных уроков.",
			html.EscapeString(subcourse.Title))
	}
	return fmt.Sprintf("📊 <b>%s</b>\n\n%s\nПройдено %d из %d %s",
		html.EscapeString(subcourse.Title),
		formatting.ProgressBar(progress.Percentage),
		progress.CompletedLessons,
		progress.TotalLessons,
		formatting.PluralizeLessons(progress.TotalLessons),
	)
}

// formatGrant форматирует доступ для администратора
func formatGrant(g *model.AccessGrant, now time.Time) string {
	var target string
	switch s := g.Scope.(type) {
	case model.ProgramScope:
		target = fmt.Sprintf("программа #%d", s.ProgramID)
	case model.SubcourseScope:
		target = fmt.Sprintf("подкурс #%d", s.SubcourseID)
	}

	status := formatting.GetGrantStatusDisplay(g.Status)
	effective := "не действует"
	if g.IsEffective(now) {
		effective = "действует"
	}

	text := fmt.Sprintf("%s <code>%s</code>\n%s, %s (%s)\n%s",
		status.Emoji,
		g.ID,
		target,
		strings.ToLower(status.Text),
		effective,
		formatting.FormatWindow(g.ValidFrom, g.ValidUntil),
	)
	if g.IsEffective(now) && g.ValidUntil != nil {
		days := int(g.ValidUntil.Sub(now).Hours() / 24)
		text += fmt.Sprintf("\n⏳ Осталось %d %s", days, formatting.PluralizeDays(days))
	}
	if !g.CreatedAt.IsZero() {
		text += "\n🕓 Выдан " + formatting.FormatDateTime(g.CreatedAt)
	}
	if g.Notes != "" {
		text += "\n💬 " + html.EscapeString(g.Notes)
	}
	return text
}

// buildGrantsScreen строит список доступов пользователя
func buildGrantsScreen(principalID int64, grants []*model.AccessGrant, now time.Time) string {
	if len(grants) == 0 {
		return fmt.Sprintf("У пользователя #%d нет доступов.", principalID)
	}

	parts := make([]string, 0, len(grants)+1)
	parts = append(parts, fmt.Sprintf("🔑 <b>Пользователь #%d</b>: %d %s",
		principalID, len(grants), formatting.PluralizeGrants(len(grants))))
	for _, g := range grants {
		parts = append(parts, formatGrant(g, now))
	}
	return strings.Join(parts, "\n\n")
}

// truncate обрезает текст по числу символов
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
