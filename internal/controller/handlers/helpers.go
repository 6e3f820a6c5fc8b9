package handlers

import "github.com/go-telegram/bot/models"

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback == nil || callback.Message.Message == nil {
		return nil
	}
	return callback.Message.Message
}

// displayName возвращает имя для приветствия
func displayName(firstName, username string) string {
	if firstName != "" {
		return firstName
	}
	if username != "" {
		return "@" + username
	}
	return "друг"
}
