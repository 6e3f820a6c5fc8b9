package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Callback data: prefix:id
const (
	OpenSubcourse  = "subcourse:" // subcourse:123 - список уроков
	OpenLesson     = "lesson:"    // lesson:123 - текст урока
	CompleteLesson = "done:"      // done:123 - отметить пройденным
	MyCourses      = "courses"
)

// CallbackData собирает callback data для кнопки
func CallbackData(prefix string, id int64) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// SubcourseButton открывает список уроков подкурса
func SubcourseButton(text string, subcourseID int64) models.InlineKeyboardButton {
	return Button(text, CallbackData(OpenSubcourse, subcourseID))
}

// LessonButton открывает урок
func LessonButton(text string, lessonID int64) models.InlineKeyboardButton {
	return Button(text, CallbackData(OpenLesson, lessonID))
}

// CompleteButton отмечает урок пройденным
func CompleteButton(lessonID int64) models.InlineKeyboardButton {
	return Button("✅ Урок пройден", CallbackData(CompleteLesson, lessonID))
}

// BackToSubcourseButton возвращает к урокам подкурса
func BackToSubcourseButton(subcourseID int64) models.InlineKeyboardButton {
	return Button("⬅️ К урокам", CallbackData(OpenSubcourse, subcourseID))
}

// BackToCoursesButton возвращает к списку курсов
func BackToCoursesButton() models.InlineKeyboardButton {
	return Button("📚 Мои курсы", MyCourses)
}
