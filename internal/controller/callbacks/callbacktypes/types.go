package callbacktypes

import (
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// Состояния, которые выставляют callback handlers
const (
	StateNone              UserState = ""
	StateEvaluationRating  UserState = "evaluation_rating"
	StateEvaluationComment UserState = "evaluation_comment"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	SessionService    *service.SessionService
	CalendarService   *service.CalendarService
	EvaluationService *service.EvaluationService
	TheoryService     *service.TheoryService
	DashboardService  *service.DashboardService
	StateManager      StateManager
	Logger            *zap.Logger
}
