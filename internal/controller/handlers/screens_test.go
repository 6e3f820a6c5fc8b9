package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCoursesScreen(t *testing.T) {
	text, kb := buildCoursesScreen(nil)
	assert.Contains(t, text, "нет доступных курсов")
	assert.Nil(t, kb)

	text, kb = buildCoursesScreen([]courseItem{{
		Subcourse: &model.Subcourse{ID: 3, Title: "Spike <Basics>"},
		Progress:  &model.SubcourseProgress{Percentage: 50},
	}})
	assert.Contains(t, text, "Spike &lt;Basics&gt;")
	assert.Contains(t, text, "50%")
	require.NotNil(t, kb)
	assert.Equal(t, "subcourse:3", kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildLessonsScreen(t *testing.T) {
	subcourse := &model.Subcourse{ID: 3, Title: "Basics"}
	lessons := []*model.Lesson{
		{ID: 10, SubcourseID: 3, Title: "Motors"},
		{ID: 11, SubcourseID: 3, Title: "Sensors"},
	}

	text, kb := buildLessonsScreen(subcourse, lessons, map[int64]bool{10: true}, &model.SubcourseProgress{Percentage: 50})
	assert.Contains(t, text, "2 урока")
	assert.Contains(t, text, "✅ 1. Motors")
	assert.Contains(t, text, "▫️ 2. Sensors")
	require.NotNil(t, kb)
	// Два урока и кнопка "Мои курсы"
	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "lesson:11", kb.InlineKeyboard[1][0].CallbackData)
}

func TestBuildLessonScreen(t *testing.T) {
	minutes := 45
	lesson := &model.Lesson{ID: 10, SubcourseID: 3, Title: "Motors", ContentText: "a & b", EstimatedMinutes: &minutes}

	text, kb := buildLessonScreen(lesson, false)
	assert.Contains(t, text, "a &amp; b")
	assert.Contains(t, text, "45 мин")
	require.NotNil(t, kb)
	assert.Equal(t, "done:10", kb.InlineKeyboard[0][0].CallbackData)

	text, kb = buildLessonScreen(lesson, true)
	assert.Contains(t, text, "Урок пройден")
	require.NotNil(t, kb)
	assert.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "subcourse:3", kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildProgressScreen_NoLessons(t *testing.T) {
	text := buildProgressScreen(&model.Subcourse{Title: "Empty"}, &model.SubcourseProgress{})
	assert.Contains(t, text, "нет опубликованных уроков")
}

func TestBuildGrantsScreen(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	assert.Contains(t, buildGrantsScreen(7, nil, now), "нет доступов")

	text := buildGrantsScreen(7, []*model.AccessGrant{{
		ID:         id,
		Scope:      model.ProgramScope{ProgramID: 2},
		Status:     model.GrantActive,
		ValidFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: &until,
	}}, now)

	assert.Contains(t, text, id.String())
	assert.Contains(t, text, "программа #2")
	assert.Contains(t, text, "(действует)")
	assert.Contains(t, text, "1 доступ")
	assert.Contains(t, text, "Осталось 213 дней")
}

func TestBuildLessonsScreen_DraftForAdmin(t *testing.T) {
	subcourse := &model.Subcourse{ID: 3, Title: "Basics", Status: model.ContentDraft, Price: 150000}

	text, _ := buildLessonsScreen(subcourse, nil, nil, nil)
	assert.Contains(t, text, "Черновик")
	assert.Contains(t, text, "Уроков пока нет")
	assert.Contains(t, text, "💰")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "абв", truncate("абв", 5))
	assert.Equal(t, "аб…", truncate("абвгд", 2))
}

func TestBulkResultText(t *testing.T) {
	assert.Equal(t, "✅ Отозвано: 2 из 3\nНе найдено: 1", bulkResultText(model.GrantRevoked, 2, 3))
	assert.Equal(t, "✅ Активировано: 1 из 1", bulkResultText(model.GrantActive, 1, 1))
}
