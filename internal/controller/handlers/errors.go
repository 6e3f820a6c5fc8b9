package handlers

import (
	"errors"
	"sort"
	"strings"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/service"
)

// Ошибки обработчиков
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotAnAdmin   = errors.New("user is not an admin")
	ErrNoMessage    = errors.New("no message in callback")
	ErrInvalidData  = errors.New("invalid callback format")
)

const accessDeniedText = "🔒 Нет доступа к этому материалу.\n\nОбратитесь к администратору школы."

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var usageErr *UsageError
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &usageErr):
		return "ℹ️ Использование:\n" + usageErr.Usage
	case errors.As(err, &validationErr):
		fields := make([]string, 0, len(validationErr.Fields))
		for field := range validationErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return "❌ Неверные данные: " + strings.Join(fields, ", ")
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNotAnAdmin):
		return "❌ Эта команда доступна только администраторам"
	case errors.Is(err, model.ErrPermissionDenied):
		return accessDeniedText
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, model.ErrInvalidScope):
		return "❌ Доступ выдаётся либо на программу, либо на подкурс"
	case errors.Is(err, model.ErrInvalidWindow):
		return "❌ Дата окончания доступа раньше даты начала"
	case errors.Is(err, model.ErrInvalidStatus):
		return "❌ Неизвестный статус"
	case errors.Is(err, model.ErrAlreadyExists):
		return "❌ Такая запись уже существует"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidData):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// errorMessageFor скрывает от не-администраторов разницу между "нет доступа" и "не найдено"
func errorMessageFor(user *model.User, err error) string {
	if !user.IsAdmin() && errors.Is(err, model.ErrNotFound) {
		return accessDeniedText
	}
	return ErrorMessage(err)
}

// isUserFacing - ошибка вызвана вводом пользователя, а не сбоем
func isUserFacing(err error) bool {
	var usageErr *UsageError
	var validationErr *service.ValidationError

	return errors.As(err, &usageErr) ||
		errors.As(err, &validationErr) ||
		errors.Is(err, model.ErrPermissionDenied) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrInvalidScope) ||
		errors.Is(err, model.ErrInvalidWindow) ||
		errors.Is(err, model.ErrInvalidStatus) ||
		errors.Is(err, model.ErrAlreadyExists)
}
