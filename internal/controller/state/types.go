package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"

	// Оценка урока
	StateEvaluationRating  UserState = "evaluation_rating"
	StateEvaluationComment UserState = "evaluation_comment"

	// Смена email/пароля
	StateProfileEmail    UserState = "profile_email"
	StateProfilePassword UserState = "profile_password"
)

// KeyEmail email, введённый на первом шаге входа или смены профиля
const KeyEmail = "email"

// UserData хранит состояние и временные данные пользователя
type UserData struct {
	State UserState
	Data  map[string]interface{}
}
