package common

import (
	"context"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithSession создаёт HandlerContext и загружает сессию.
// Без входа отвечает приглашением /login.
func WithSession(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadSession(); err != nil {
		if !apperr.IsKind(err, apperr.KindAuthentication) {
			h.Logger.Error("Failed to load session",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
		}
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError логирует ошибку операции и показывает её пользователю.
// Ошибки валидации ожидаемы и пишутся на уровне Debug.
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err),
	}
	if apperr.IsKind(err, apperr.KindValidation) {
		hc.Handler.Logger.Debug("Operation rejected", fields...)
	} else {
		hc.Handler.Logger.Error("Operation failed", fields...)
		metrics.RecordError("callback", string(apperr.KindOf(err)))
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// LogAndAnswer логирует действие и отвечает на callback
func LogAndAnswer(hc *HandlerContext, message string, answer string) {
	fields := []zap.Field{zap.Int64("telegram_id", hc.TelegramID)}
	if hc.Session != nil {
		fields = append(fields, zap.String("user_id", hc.Session.Session.User.UserID))
	}
	hc.Handler.Logger.Info(message, fields...)
	hc.Answer(answer)
}
