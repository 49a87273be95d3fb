package common

import (
	"context"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBackToMain сбрасывает диалог и показывает главный экран в том же сообщении
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.ClearState()

	if err := hc.LoadSession(); err != nil {
		hc.Answer("")
		if editErr := hc.EditMessage(LoginPromptText, keyboard.Empty()); editErr != nil {
			h.Logger.Warn("Failed to show login prompt", zap.Error(editErr))
		}
		return
	}

	ShowDashboard(hc, false)
}

// ShowDashboard перерисовывает сообщение главным экраном
func ShowDashboard(hc *HandlerContext, refresh bool) {
	if refresh {
		if err := hc.Handler.CalendarService.Refresh(hc.Ctx, hc.TelegramID); err != nil {
			HandleError(hc, err, "refresh_dashboard")
			return
		}
	}

	dash, err := hc.Handler.DashboardService.Dashboard(hc.Ctx, hc.TelegramID)
	if err != nil {
		HandleError(hc, err, "dashboard")
		return
	}

	text, kb := DashboardScreen(dash, hc.Handler.SessionService.Now())
	if err := hc.EditMessage(text, kb); err != nil {
		HandleError(hc, err, "render_dashboard")
		return
	}
	if refresh {
		hc.Answer("🔄 Updated")
		return
	}
	hc.Answer("")
}
