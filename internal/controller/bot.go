package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/handlers"
	"github.com/Freeeeeet/kreno_bot/internal/controller/state"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

// Services сервисы, которые использует бот
type Services struct {
	Sessions    *service.SessionService
	Calendar    *service.CalendarService
	Evaluations *service.EvaluationService
	Theory      *service.TheoryService
	Dashboard   *service.DashboardService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, services Services, logger *zap.Logger) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		services.Sessions,
		services.Calendar,
		services.Evaluations,
		services.Theory,
		services.Dashboard,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		services.Sessions,
		services.Calendar,
		services.Evaluations,
		services.Theory,
		services.Dashboard,
		state.NewAdapter(stateManager),
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}
}

// command описание команды бота
type command struct {
	name        string
	description string
	handle      bot.HandlerFunc
}

func (c *BotController) commands() []command {
	return []command{
		{"start", "🚀 Start", c.handlers.HandleStart},
		{"login", "🔑 Sign in", c.handlers.HandleLogin},
		{"dashboard", "🏠 Overview", c.handlers.HandleDashboard},
		{"calendar", "📅 Availability calendar", c.handlers.HandleCalendar},
		{"lessons", "🚗 My lessons", c.handlers.HandleLessons},
		{"evaluations", "⭐ Rate lessons", c.handlers.HandleEvaluations},
		{"theory", "🧠 Theory tests", c.handlers.HandleTheory},
		{"services", "🧾 My services", c.handlers.HandleServices},
		{"refresh", "🔄 Reload data", c.handlers.HandleRefresh},
		{"profile", "👤 Change email or password", c.handlers.HandleProfile},
		{"cancel", "❌ Cancel current action", c.handlers.HandleCancel},
		{"logout", "👋 Sign out", c.handlers.HandleLogout},
		{"help", "❓ Help", c.handlers.HandleHelp},
	}
}

// instrument считает обработанные обновления
func instrument(name string, handle bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		metrics.RecordUpdate(name, nil)
		handle(ctx, b, update)
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	for _, cmd := range c.commands() {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/"+cmd.name, bot.MatchTypeExact, instrument(cmd.name, cmd.handle))
	}

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, instrument("text", c.handlers.HandleTextMessage))

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	list := c.commands()
	commands := make([]models.BotCommand, 0, len(list))
	for _, cmd := range list {
		commands = append(commands, models.BotCommand{Command: cmd.name, Description: cmd.description})
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


// NotifyPendingEvaluations отправляет напоминание об уроках без оценки
func (c *BotController) NotifyPendingEvaluations(ctx context.Context, session model.Session, lessons []model.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	text, kb := common.ReminderScreen(lessons)
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      session.ChatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil {
		return fmt.Errorf("send reminder to %d: %w", session.TelegramID, err)
	}

	c.logger.Info("Evaluation reminder sent",
		zap.Int64("telegram_id", session.TelegramID),
		zap.Int("lessons", len(lessons)))
	return nil
}

// Start запускает long polling; блокирует до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
