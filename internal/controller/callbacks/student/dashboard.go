package student

import (
	"context"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleDashboardRefresh перезагружает данные и обновляет главный экран
func HandleDashboardRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		common.ShowDashboard(hc, true)
	})
}

// HandleLessonsPage список уроков с пагинацией
func HandleLessonsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIntArg(callback.Data, common.CallbackLessonsPage)
		if err != nil {
			common.HandleError(hc, err, "lessons_page")
			return
		}

		upcoming, past, err := h.DashboardService.Lessons(ctx, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "lessons")
			return
		}

		text, kb := common.LessonsScreen(upcoming, past, page, h.SessionService.Location())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_lessons")
			return
		}
		hc.Answer("")
	})
}

// HandleServices услуги студента
func HandleServices(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		services, err := h.DashboardService.Services(ctx, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "services")
			return
		}

		text, kb := common.ServicesScreen(services, h.SessionService.Location())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_services")
			return
		}
		hc.Answer("")
	})
}
