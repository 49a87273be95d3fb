package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/state"
)

// HandleStart приветствие; после входа сразу главный экран
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, err := h.sessionService.Require(ctx, update.Message.From.ID); err == nil {
		h.HandleDashboard(ctx, b, update)
		return
	}

	welcome := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"This is the Kreno driving school bot. Here you can mark when you are available for lessons, "+
			"rate your lessons and practise theory tests.\n\n"+
			"%s",
		html.EscapeString(update.Message.From.FirstName),
		common.LoginPromptText,
	)
	h.sendScreen(ctx, b, update.Message.Chat.ID, welcome, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, common.HelpText, nil)
}

// HandleLogin начинает диалог входа
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateLoginEmail)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔑 Login\n\nStep 1 of 2: send the email of your Kreno account.\n\nTo cancel use /cancel")
}

// HandleLogout закрывает сессию
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.theoryService.Abort(telegramID)

	if err := h.sessionService.Logout(ctx, telegramID); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 You are logged out. Use /login to sign in again.")
}

// HandleDashboard главный экран
func (h *Handlers) HandleDashboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	dash, err := h.dashboardService.Dashboard(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.DashboardScreen(dash, h.sessionService.Now())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleCalendar сетка сегодняшнего дня
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	today := h.calendarService.Today()
	view, err := h.calendarService.Day(ctx, update.Message.From.ID, today)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.DayScreen(view, today)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleLessons предстоящие и прошедшие уроки
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	upcoming, past, err := h.dashboardService.Lessons(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.LessonsScreen(upcoming, past, 0, h.sessionService.Location())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleEvaluations уроки для оценки
func (h *Handlers) HandleEvaluations(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	overview, err := h.evaluationService.Overview(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.EvaluationsScreen(overview, h.evaluationService.EditWindow())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleTheory категории тестов
func (h *Handlers) HandleTheory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	text, kb := common.TheoryCategoriesScreen(h.theoryService.Categories())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleServices услуги студента
func (h *Handlers) HandleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	services, err := h.dashboardService.Services(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.ServicesScreen(services, h.sessionService.Location())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleRefresh принудительно перезагружает уроки и доступность
func (h *Handlers) HandleRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	if err := h.calendarService.Refresh(ctx, update.Message.From.ID); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.HandleDashboard(ctx, b, update)
}

// HandleProfile начинает смену email/пароля
func (h *Handlers) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	active, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateProfileEmail)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👤 Profile\n\nCurrent email: %s\n\nStep 1 of 2: send a new email, or %q to keep it.\n\nTo cancel use /cancel",
		active.Session.User.Email, KeepValue,
	))
}

// HandleCancel отмена текущего диалога и теста
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	aborted := h.theoryService.Abort(telegramID)

	if currentState == state.StateNone && !aborted {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nUse /help to see the available commands.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("Text message received",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return
	case state.StateLoginEmail:
		h.handleLoginEmailStep(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPasswordStep(ctx, b, update)
	case state.StateEvaluationRating:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "⭐ Use the buttons above to rate the lesson, or /cancel.")
	case state.StateEvaluationComment:
		h.handleEvaluationCommentStep(ctx, b, update)
	case state.StateProfileEmail:
		h.handleProfileEmailStep(ctx, b, update)
	case state.StateProfilePassword:
		h.handleProfilePasswordStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
