package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	questionsPerTest = 15
	weakSpotLimit    = 2
)

var (
	ErrNoActiveTest  = apperr.Validation("NO_ACTIVE_TEST", "no test in progress, pick a category in /theory")
	ErrStaleQuestion = apperr.Validation("STALE_QUESTION", "this question was already answered")
	ErrUnknownOption = apperr.Validation("UNKNOWN_OPTION", "unknown answer option")
)

// TestRun прохождение теста одним студентом
type TestRun struct {
	ID       string
	Category model.TestCategory
	// Questions в порядке выдачи; Answered заполняется по мере ответов
	Questions []model.Question
	Answered  []model.AnsweredQuestion
	Score     int
	StartedAt time.Time
}

// Current текущий вопрос и его номер; false когда тест окончен
func (r *TestRun) Current() (model.Question, int, bool) {
	idx := len(r.Answered)
	if idx >= len(r.Questions) {
		return model.Question{}, idx, false
	}
	return r.Questions[idx], idx, true
}

// Done все вопросы отвечены или пропущены
func (r *TestRun) Done() bool {
	return len(r.Answered) >= len(r.Questions)
}

// Total количество вопросов
func (r *TestRun) Total() int {
	return len(r.Questions)
}

// Answer фиксирует ответ на текущий вопрос. Возвращает правильность ответа.
func (r *TestRun) Answer(index int, optionID string) (bool, error) {
	q, idx, ok := r.Current()
	if !ok || idx != index {
		return false, ErrStaleQuestion
	}

	found := false
	for _, o := range q.Options {
		if o.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return false, ErrUnknownOption
	}

	answer := optionID
	correct := optionID == q.CorrectOptionID
	r.Answered = append(r.Answered, model.AnsweredQuestion{
		Question:   q,
		UserAnswer: &answer,
		IsCorrect:  correct,
	})
	if correct {
		r.Score++
	}
	return correct, nil
}

// Skip пропускает текущий вопрос
func (r *TestRun) Skip(index int) error {
	q, idx, ok := r.Current()
	if !ok || idx != index {
		return ErrStaleQuestion
	}
	r.Answered = append(r.Answered, model.AnsweredQuestion{Question: q})
	return nil
}

// PerformanceMessage текст итога по доле правильных ответов
func PerformanceMessage(score, total int) string {
	if total == 0 {
		return "No questions were attempted."
	}
	percentage := float64(score) / float64(total) * 100
	switch {
	case percentage >= 80:
		return "Excellent work! You've mastered this category."
	case percentage >= 60:
		return "Good job! A little more practice will make perfect."
	case percentage >= 40:
		return "You're getting there! Keep practicing."
	default:
		return "Keep trying! Review the material and try again."
	}
}

type TheoryService struct {
	sessions *SessionService
	backend  Backend
	logger   *zap.Logger

	mu   sync.Mutex
	runs map[int64]*TestRun
}

func NewTheoryService(sessions *SessionService, backend Backend, logger *zap.Logger) *TheoryService {
	return &TheoryService{
		sessions: sessions,
		backend:  backend,
		logger:   logger,
		runs:     make(map[int64]*TestRun),
	}
}

// Categories список категорий тестов
func (s *TheoryService) Categories() []model.TestCategory {
	return model.TestCategories
}

// Start загружает вопросы категории и начинает новый тест, заменяя незаконченный
func (s *TheoryService) Start(ctx context.Context, telegramID int64, categoryID string) (*TestRun, error) {
	active, err := s.sessions.Require(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	category, ok := model.CategoryByID(categoryID)
	if !ok {
		return nil, apperr.Validation("UNKNOWN_CATEGORY", "unknown test category %q", categoryID)
	}

	var questions []model.Question
	if category.Title == model.GeneralTestTitle {
		questions, err = s.backend.WeakSpotQuestions(ctx, active.Session.User.UserID, weakSpotLimit)
	} else {
		questions, err = s.backend.Questions(ctx, category.Title, questionsPerTest)
	}
	if err != nil {
		return nil, err
	}

	run := &TestRun{
		ID:        uuid.New().String(),
		Category:  category,
		Questions: questions,
		StartedAt: s.sessions.Now(),
	}

	s.mu.Lock()
	s.runs[telegramID] = run
	s.mu.Unlock()

	s.logger.Info("Theory test started",
		zap.String("run_id", run.ID),
		zap.String("user_id", active.Session.User.UserID),
		zap.String("category", category.Title),
		zap.Int("questions", len(questions)),
	)
	return run, nil
}

// Run текущий тест пользователя
func (s *TheoryService) Run(telegramID int64) (*TestRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[telegramID]
	if !ok {
		return nil, ErrNoActiveTest
	}
	return run, nil
}

// Answer отвечает на вопрос index текущего теста
func (s *TheoryService) Answer(telegramID int64, index int, optionID string) (*TestRun, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[telegramID]
	if !ok {
		return nil, false, ErrNoActiveTest
	}
	correct, err := run.Answer(index, optionID)
	return run, correct, err
}

// Skip пропускает вопрос index текущего теста
func (s *TheoryService) Skip(telegramID int64, index int) (*TestRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[telegramID]
	if !ok {
		return nil, ErrNoActiveTest
	}
	return run, run.Skip(index)
}

// Finish сохраняет результат законченного теста.
// Ошибка сохранения не отменяет результат, тест все равно закрывается.
func (s *TheoryService) Finish(ctx context.Context, telegramID int64) (*TestRun, error) {
	active, err := s.sessions.Require(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	run, ok := s.runs[telegramID]
	if ok && run.Done() {
		delete(s.runs, telegramID)
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNoActiveTest
	}
	if !run.Done() {
		return run, apperr.Validation("TEST_NOT_FINISHED", "answer or skip the remaining questions first")
	}

	result := model.TestResult{
		UserID:    active.Session.User.UserID,
		Category:  run.Category.Title,
		Questions: run.Answered,
		Score:     run.Score,
		TakenAt:   s.sessions.Now(),
	}
	if err := s.backend.SaveTestResult(ctx, result); err != nil {
		metrics.RecordError("theory", string(apperr.KindOf(err)))
		s.logger.Error("Failed to save test result",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
		return run, err
	}

	metrics.RecordTheoryTest(run.Category.Title)

	s.logger.Info("Theory test finished",
		zap.String("run_id", run.ID),
		zap.Int("score", run.Score),
		zap.Int("total", run.Total()),
	)
	return run, nil
}

// Abort отменяет незаконченный тест
func (s *TheoryService) Abort(telegramID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.runs[telegramID]
	delete(s.runs, telegramID)
	return ok
}

// IsNoActiveTest проверка для контроллера
func IsNoActiveTest(err error) bool {
	return errors.Is(err, ErrNoActiveTest)
}
