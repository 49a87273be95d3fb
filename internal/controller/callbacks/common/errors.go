package common

import (
	"errors"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
)

// Ошибки обработчиков, не связанные с бэкендом
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrFlowExpired   = errors.New("evaluation form expired")
	ErrStaleButton   = errors.New("button is out of date")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Could not process this message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid button data"
	case errors.Is(err, ErrFlowExpired):
		return "⌛ This form has expired. Open /evaluations again."
	case errors.Is(err, ErrStaleButton):
		return "⌛ This button is out of date"
	default:
		return apperr.UserMessage(err)
	}
}
