package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/store"
)

// EvaluationOverview уроки, ожидающие оценки, и уже оцененные
type EvaluationOverview struct {
	Pending   []model.Lesson
	Completed []model.Lesson
	Stale     bool
}

// EvaluationForm что нужно оценить в уроке
type EvaluationForm struct {
	Lesson               model.Lesson
	SkillCategories      []string
	InstructorCategories []string
}

// EvaluationDraft заполняемая студентом форма
type EvaluationDraft struct {
	LessonID          string
	SkillRatings      map[string]model.RatingLevel
	InstructorRatings map[string]model.RatingLevel
	OverallRating     int
	Comment           string
	// Editing редактирование ранее отправленной оценки
	Editing bool
}

// NewEvaluationDraft создает пустую форму
func NewEvaluationDraft(lessonID string, editing bool) *EvaluationDraft {
	return &EvaluationDraft{
		LessonID:          lessonID,
		SkillRatings:      make(map[string]model.RatingLevel),
		InstructorRatings: make(map[string]model.RatingLevel),
		Editing:           editing,
	}
}

type EvaluationService struct {
	sessions       *SessionService
	evaluationRepo EvaluationRepository
	backend        Backend
	validate       *validator.Validate
	editWindow     time.Duration
	logger         *zap.Logger
}

func NewEvaluationService(
	sessions *SessionService,
	evaluationRepo EvaluationRepository,
	backend Backend,
	editWindow time.Duration,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		sessions:       sessions,
		evaluationRepo: evaluationRepo,
		backend:        backend,
		validate:       model.NewValidator(),
		editWindow:     editWindow,
		logger:         logger,
	}
}

// EditWindow срок, в течение которого оценку можно изменить
func (s *EvaluationService) EditWindow() time.Duration {
	return s.editWindow
}

// SplitLessons делит уроки на ожидающие оценки (прошедшие, без оценки)
// и оцененные; оба списка от новых к старым
func SplitLessons(lessons []model.Lesson, now time.Time) (pending, completed []model.Lesson) {
	starts := make(map[string]time.Time, len(lessons))
	for _, l := range lessons {
		start, ok := calendar.LessonStart(l, now.Location())
		if !ok {
			continue
		}
		starts[l.ID] = start

		switch {
		case l.EvaluationGiven:
			completed = append(completed, l)
		case start.Before(now):
			pending = append(pending, l)
		}
	}

	newestFirst := func(a, b model.Lesson) int {
		return starts[b.ID].Compare(starts[a.ID])
	}
	slices.SortStableFunc(pending, newestFirst)
	slices.SortStableFunc(completed, newestFirst)
	return pending, completed
}

// Overview уроки для экрана оценок
func (s *EvaluationService) Overview(ctx context.Context, telegramID int64) (*EvaluationOverview, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	fetchErr := cache.FetchLessons(ctx, false)
	lessons := cache.Lessons()
	if fetchErr != nil && !lessons.Loaded {
		return nil, fetchErr
	}

	pending, completed := SplitLessons(lessons.Items, cache.Now())
	return &EvaluationOverview{
		Pending:   pending,
		Completed: completed,
		Stale:     fetchErr != nil || lessons.Stale(),
	}, nil
}

// Form собирает категории оценки урока: подзадачи навыка урока
// или общий список категорий, если навык не указан
func (s *EvaluationService) Form(ctx context.Context, telegramID int64, lessonID string) (*EvaluationForm, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if err := cache.FetchLessons(ctx, false); err != nil && !cache.Lessons().Loaded {
		return nil, err
	}

	lesson, ok := cache.Lesson(lessonID)
	if !ok {
		return nil, apperr.ErrLessonNotFound
	}

	form := &EvaluationForm{
		Lesson:               lesson,
		SkillCategories:      model.SkillCategories(),
		InstructorCategories: slices.Clone(model.InstructorCategories),
	}

	if lesson.SkillID == nil {
		return form, nil
	}
	if err := cache.FetchSkills(ctx, false); err != nil {
		s.logger.Warn("Failed to load skills catalog, using default categories", zap.Error(err))
		return form, nil
	}

	var subSkills []string
	for _, sub := range cache.SubSkills().Items {
		if sub.SkillID == *lesson.SkillID {
			subSkills = append(subSkills, sub.Name)
		}
	}
	if len(subSkills) > 0 {
		form.SkillCategories = subSkills
	}
	return form, nil
}

// Validate проверяет заполненность формы
func (s *EvaluationService) Validate(form *EvaluationForm, draft *EvaluationDraft) error {
	for _, category := range form.SkillCategories {
		if !draft.SkillRatings[category].Valid() {
			return apperr.ErrIncompleteForm.WithMessage("please rate all skills")
		}
	}
	for _, category := range form.InstructorCategories {
		if !draft.InstructorRatings[category].Valid() {
			return apperr.ErrIncompleteForm.WithMessage("please rate all instructor categories")
		}
	}
	if draft.OverallRating < 1 || draft.OverallRating > 5 {
		return apperr.ErrIncompleteForm.WithMessage("please provide an overall lesson rating (1-5 stars)")
	}
	if strings.TrimSpace(draft.Comment) == "" {
		return apperr.ErrIncompleteForm.WithMessage("please provide a comment for the evaluation")
	}
	return nil
}

// CanEdit проверяет окно редактирования по локальной отметке
func (s *EvaluationService) CanEdit(ctx context.Context, userID, lessonID string, now time.Time) (*model.EvaluationReceipt, error) {
	receipt, err := s.evaluationRepo.GetReceipt(ctx, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if receipt == nil {
		return nil, apperr.ErrNoReceipt
	}
	if now.Sub(receipt.SubmittedAt) > s.editWindow {
		return receipt, apperr.ErrEditWindowClosed
	}
	return receipt, nil
}

// Submit отправляет новую оценку или правку существующей
func (s *EvaluationService) Submit(ctx context.Context, telegramID int64, form *EvaluationForm, draft *EvaluationDraft) error {
	active, err := s.sessions.Require(ctx, telegramID)
	if err != nil {
		return err
	}
	if err := s.Validate(form, draft); err != nil {
		return err
	}

	now := active.Cache.Now()
	eval := model.Evaluation{
		LessonID:          draft.LessonID,
		SkillRatings:      draft.SkillRatings,
		InstructorRatings: draft.InstructorRatings,
		OverallRating:     draft.OverallRating,
		Comment:           strings.TrimSpace(draft.Comment),
		SubmittedAt:       now,
	}
	if err := s.validate.Struct(eval); err != nil {
		return apperr.ErrIncompleteForm.WithError(err)
	}

	userID := active.Session.User.UserID
	if draft.Editing {
		return s.update(ctx, active.Cache, userID, eval, now)
	}

	err = s.backend.SubmitEvaluation(ctx, eval)
	metrics.RecordEvaluation("submit", err)
	if err != nil {
		return err
	}

	receipt := &model.EvaluationReceipt{
		TelegramID:  telegramID,
		UserID:      userID,
		LessonID:    eval.LessonID,
		SubmittedAt: now,
	}
	if err := s.evaluationRepo.SaveReceipt(ctx, receipt); err != nil {
		// Оценка уже принята бэкендом, теряется только возможность правки
		s.logger.Error("Failed to save evaluation receipt", zap.String("lesson_id", eval.LessonID), zap.Error(err))
	}
	active.Cache.MarkEvaluationGiven(eval.LessonID)

	s.logger.Info("Evaluation submitted",
		zap.String("user_id", userID),
		zap.String("lesson_id", eval.LessonID),
	)
	return nil
}

func (s *EvaluationService) update(ctx context.Context, cache *store.Cache, userID string, eval model.Evaluation, now time.Time) error {
	if _, err := s.CanEdit(ctx, userID, eval.LessonID, now); err != nil {
		return err
	}

	err := s.backend.UpdateEvaluation(ctx, eval)
	metrics.RecordEvaluation("update", err)
	if err != nil {
		return err
	}

	if err := s.evaluationRepo.MarkUpdated(ctx, userID, eval.LessonID, now); err != nil {
		s.logger.Warn("Failed to mark evaluation updated", zap.String("lesson_id", eval.LessonID), zap.Error(err))
	}
	cache.MarkEvaluationGiven(eval.LessonID)

	s.logger.Info("Evaluation updated",
		zap.String("user_id", userID),
		zap.String("lesson_id", eval.LessonID),
	)
	return nil
}

// ReminderCandidates уроки, о которых еще не напоминали.
// Ничего не отмечает: отметку ставит MarkReminded после доставки.
func (s *EvaluationService) ReminderCandidates(ctx context.Context, active *ActiveSession) ([]model.Lesson, error) {
	if err := active.Cache.FetchLessons(ctx, false); err != nil && !active.Cache.Lessons().Loaded {
		return nil, err
	}

	pending, _ := SplitLessons(active.Cache.Lessons().Items, active.Cache.Now())

	var fresh []model.Lesson
	for _, lesson := range pending {
		reminded, err := s.evaluationRepo.WasReminded(ctx, active.Session.User.UserID, lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("check reminded: %w", err)
		}
		if !reminded {
			fresh = append(fresh, lesson)
		}
	}
	return fresh, nil
}

// MarkReminded отмечает доставленное напоминание, чтобы не повторять его
func (s *EvaluationService) MarkReminded(ctx context.Context, active *ActiveSession, lessons []model.Lesson) error {
	for _, lesson := range lessons {
		if _, err := s.evaluationRepo.MarkReminded(ctx, active.Session.User.UserID, lesson.ID); err != nil {
			return fmt.Errorf("mark reminded: %w", err)
		}
	}
	return nil
}
