package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

// requireSession проверяет, что пользователь вошёл.
// Без сессии отправляет приглашение /login.
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*service.ActiveSession, bool) {
	if update.Message == nil {
		return nil, false
	}

	active, err := h.sessionService.Require(ctx, update.Message.From.ID)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindAuthentication) {
			h.logger.Error("Failed to load session", zap.Int64("telegram_id", update.Message.From.ID), zap.Error(err))
		}
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return nil, false
	}
	return active, true
}

// sendError отправляет пользовательский текст ошибки
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
}

// sendMessage отправляет сообщение без разметки и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendScreen отправляет HTML-экран с клавиатурой
func (h *Handlers) sendScreen(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send screen",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// deleteMessage удаляет сообщение пользователя (например, с паролем)
func (h *Handlers) deleteMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
	if err != nil {
		h.logger.Debug("Failed to delete message", zap.Int("message_id", msg.ID), zap.Error(err))
	}
}
