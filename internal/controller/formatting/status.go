package formatting

import "github.com/Freeeeeet/lms_bot/internal/model"

// StatusDisplay - emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetGrantStatusDisplay возвращает emoji и текст для статуса доступа
func GetGrantStatusDisplay(status model.GrantStatus) StatusDisplay {
	displays := map[model.GrantStatus]StatusDisplay{
		model.GrantActive:  {"🟢", "Активен"},
		model.GrantExpired: {"⌛️", "Истёк"},
		model.GrantRevoked: {"⛔️", "Отозван"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetContentStatusDisplay возвращает emoji и текст для статуса публикации
func GetContentStatusDisplay(status model.ContentStatus) StatusDisplay {
	displays := map[model.ContentStatus]StatusDisplay{
		model.ContentDraft:     {"📝", "Черновик"},
		model.ContentPublished: {"✅", "Опубликован"},
		model.ContentArchived:  {"🗄", "В архиве"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}
