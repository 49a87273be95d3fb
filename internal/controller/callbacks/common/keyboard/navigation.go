package keyboard

import "github.com/go-telegram/bot/models"

// Общие callback навигации
const (
	CallbackBackToMain = "back_to_main"
	CallbackNoop       = "noop"
)

// BackButton создаёт кнопку "Back"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

// BackToMainButton возвращает на главный экран
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 Main menu", CallbackBackToMain)
}

// NoopButton кнопка-подпись без действия
func NoopButton(text string) models.InlineKeyboardButton {
	return Button(text, CallbackNoop)
}

func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancel", callbackData)
}

func ConfirmButton(text, callbackData string) models.InlineKeyboardButton {
	return Button("✅ "+text, callbackData)
}

// ConfirmCancelButtons ряд Подтвердить/Отмена
func ConfirmCancelButtons(text, confirmCallback, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		ConfirmButton(text, confirmCallback),
		CancelButton(cancelCallback),
	}
}

// AddBackButton добавляет кнопку "Back" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddBackToMainButton добавляет кнопку главного меню к builder
func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}
