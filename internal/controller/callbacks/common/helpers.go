package common

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// alertLimit максимальная длина текста ответа на callback
const alertLimit = 200

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            Truncate(text, alertLimit),
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            Truncate(text, alertLimit),
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseArgs извлекает n аргументов из callback data после префикса.
// Последний аргумент может содержать ':' ("cal_slot:2025-06-01:14:00").
func ParseArgs(data, prefix string, n int) ([]string, error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok || rest == "" {
		return nil, ErrInvalidFormat
	}
	parts := strings.SplitN(rest, ":", n)
	if len(parts) != n {
		return nil, ErrInvalidFormat
	}
	for _, p := range parts {
		if p == "" {
			return nil, ErrInvalidFormat
		}
	}
	return parts, nil
}

// ParseArg единственный аргумент callback data
func ParseArg(data, prefix string) (string, error) {
	parts, err := ParseArgs(data, prefix, 1)
	if err != nil {
		return "", err
	}
	return parts[0], nil
}

// ParseIntArg числовой аргумент callback data: "lessons_page:2" -> 2
func ParseIntArg(data, prefix string) (int, error) {
	arg, err := ParseArg(data, prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return n, nil
}

// IsMessageNotModifiedError Telegram отклонил редактирование без изменений
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// Truncate обрезает строку до limit символов
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
