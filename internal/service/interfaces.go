package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/store"
)

// Backend операции Kreno API, которыми пользуются сервисы
type Backend interface {
	store.Backend

	Login(ctx context.Context, email, password string) (model.User, error)
	UpdateProfile(ctx context.Context, update kreno.ProfileUpdate) error
	SubmitEvaluation(ctx context.Context, eval model.Evaluation) error
	UpdateEvaluation(ctx context.Context, eval model.Evaluation) error
	Questions(ctx context.Context, category string, count int) ([]model.Question, error)
	WeakSpotQuestions(ctx context.Context, userID string, limit int) ([]model.Question, error)
	SaveTestResult(ctx context.Context, result model.TestResult) error
	EnrolledServices(ctx context.Context, userID string) ([]model.EnrolledService, error)
}

// SessionRepository хранилище сессий
type SessionRepository interface {
	Save(ctx context.Context, session *model.Session) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error)
	ListAll(ctx context.Context) ([]*model.Session, error)
	Delete(ctx context.Context, telegramID int64) error
}

// EvaluationRepository хранилище отметок об оценках
type EvaluationRepository interface {
	SaveReceipt(ctx context.Context, receipt *model.EvaluationReceipt) error
	GetReceipt(ctx context.Context, userID, lessonID string) (*model.EvaluationReceipt, error)
	MarkUpdated(ctx context.Context, userID, lessonID string, at time.Time) error
	WasReminded(ctx context.Context, userID, lessonID string) (bool, error)
	MarkReminded(ctx context.Context, userID, lessonID string) (bool, error)
}

var _ Backend = (*kreno.Client)(nil)
