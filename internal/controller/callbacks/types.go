package callbacks

import (
	"context"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager = callbacktypes.StateManager

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	sessionService *service.SessionService,
	calendarService *service.CalendarService,
	evaluationService *service.EvaluationService,
	theoryService *service.TheoryService,
	dashboardService *service.DashboardService,
	stateManager StateManager,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		SessionService:    sessionService,
		CalendarService:   calendarService,
		EvaluationService: evaluationService,
		TheoryService:     theoryService,
		DashboardService:  dashboardService,
		StateManager:      stateManager,
		Logger:            logger,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("telegram_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
