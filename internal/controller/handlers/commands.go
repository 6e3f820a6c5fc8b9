package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя
	user, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот онлайн-школы робототехники: здесь ваши курсы, уроки и прогресс.\n\n"+
			"Ваш ID: <code>%d</code>\n"+
			"Сообщите его администратору, чтобы получить доступ к курсам.\n\n"+
			"/courses - Мои курсы\n"+
			"/help - Справка",
		html.EscapeString(displayName(user.FirstName, user.Username)),
		user.ID,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/courses - Мои курсы и прогресс\n" +
		UsageLessons + " - Уроки подкурса\n" +
		UsageLesson + " - Открыть урок\n" +
		UsageDone + " - Отметить урок пройденным\n" +
		UsageProgress + " - Прогресс по подкурсу\n" +
		"/help - Показать эту справку"

	user, err := h.userService.GetByTelegramID(ctx, update.Message.From.ID)
	if err == nil && user.IsAdmin() {
		helpText += "\n\nДля администраторов:\n" +
			UsageGrant + " - Выдать доступ\n" +
			UsageGrants + " - Доступы пользователя\n" +
			UsageActivate + " - Активировать доступы\n" +
			UsageRevoke + " - Отозвать доступы\n" +
			"/sweep - Пометить истёкшие доступы"
	}

	// Без HTML: в подсказках есть угловые скобки
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
	if err != nil {
		h.logger.Error("Failed to send help", zap.Error(err))
	}
}
