package handlers

// Ограничения ввода в диалогах
const (
	CommentMinLength  = 3
	CommentMaxLength  = 1000
	PasswordMinLength = 6

	// KeepValue ответ "оставить без изменений" в диалоге профиля
	KeepValue = "-"
)
