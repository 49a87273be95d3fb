package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/controller/state"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

// Handlers обработчики команд и текстовых диалогов
type Handlers struct {
	sessionService    *service.SessionService
	calendarService   *service.CalendarService
	evaluationService *service.EvaluationService
	theoryService     *service.TheoryService
	dashboardService  *service.DashboardService
	stateManager      *state.Manager
	validate          *validator.Validate
	logger            *zap.Logger
}

func NewHandlers(
	sessionService *service.SessionService,
	calendarService *service.CalendarService,
	evaluationService *service.EvaluationService,
	theoryService *service.TheoryService,
	dashboardService *service.DashboardService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sessionService:    sessionService,
		calendarService:   calendarService,
		evaluationService: evaluationService,
		theoryService:     theoryService,
		dashboardService:  dashboardService,
		stateManager:      stateManager,
		validate:          model.NewValidator(),
		logger:            logger,
	}
}
