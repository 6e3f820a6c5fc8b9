package controller

import (
	"context"

	"github.com/Freeeeeet/lms_bot/internal/controller/handlers"
	"github.com/Freeeeeet/lms_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	catalogService *service.CatalogService,
	grantService *service.GrantService,
	resolver *service.AccessResolver,
	progressService *service.ProgressService,
	clock service.Clock,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		catalogService,
		grantService,
		resolver,
		progressService,
		clock,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	commands := map[string]bot.HandlerFunc{
		"start":    c.handlers.HandleStart,
		"help":     c.handlers.HandleHelp,
		"courses":  c.handlers.HandleCourses,
		"lessons":  c.handlers.HandleLessons,
		"lesson":   c.handlers.HandleLesson,
		"done":     c.handlers.HandleDone,
		"progress": c.handlers.HandleProgress,

		// Команды для администраторов
		"grant":    c.handlers.HandleGrant,
		"grants":   c.handlers.HandleGrants,
		"activate": c.handlers.HandleActivate,
		"revoke":   c.handlers.HandleRevoke,
		"sweep":    c.handlers.HandleSweep,
	}

	// Команды с аргументами: сравниваем по имени команды, а не по всему тексту
	for name, handler := range commands {
		c.bot.RegisterHandlerMatchFunc(handlers.CommandMatcher(name), handler)
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "courses", Description: "📚 Мои курсы"},
		{Command: "progress", Description: "📊 Прогресс по подкурсу"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
