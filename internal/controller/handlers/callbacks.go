package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lms_bot/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	msg := messageFromCallback(callback)
	if msg == nil {
		h.answerCallback(ctx, b, callback.ID, ErrorMessage(ErrNoMessage), false)
		return
	}

	user, err := h.userService.GetByTelegramID(ctx, callback.From.ID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", callback.From.ID), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, ErrorMessage(err), true)
		return
	}
	if user == nil {
		h.answerCallback(ctx, b, callback.ID, ErrorMessage(ErrUserNotFound), true)
		return
	}

	h.logger.Debug("Callback received",
		zap.Int64("user_id", user.ID),
		zap.String("data", callback.Data),
	)

	var (
		text   string
		markup *models.InlineKeyboardMarkup
		answer string
	)

	data := callback.Data
	switch {
	case data == keyboard.MyCourses:
		text, markup, err = h.coursesScreen(ctx, user)
	case strings.HasPrefix(data, keyboard.OpenSubcourse):
		var id int64
		if id, err = parseCallbackID(data, keyboard.OpenSubcourse); err == nil {
			text, markup, err = h.lessonsScreen(ctx, user, id)
		}
	case strings.HasPrefix(data, keyboard.OpenLesson):
		var id int64
		if id, err = parseCallbackID(data, keyboard.OpenLesson); err == nil {
			text, markup, err = h.lessonScreen(ctx, user, id)
		}
	case strings.HasPrefix(data, keyboard.CompleteLesson):
		var id int64
		if id, err = parseCallbackID(data, keyboard.CompleteLesson); err == nil {
			text, markup, err = h.completeLesson(ctx, user, id)
			answer = "✅ Отмечено"
		}
	default:
		err = ErrInvalidData
	}

	if err != nil {
		if !isUserFacing(err) {
			h.logger.Error("Failed to handle callback",
				zap.Int64("user_id", user.ID),
				zap.String("data", data),
				zap.Error(err),
			)
		}
		h.answerCallback(ctx, b, callback.ID, errorMessageFor(user, err), true)
		return
	}

	h.editMessage(ctx, b, msg, text, markup)
	h.answerCallback(ctx, b, callback.ID, answer, false)
}
