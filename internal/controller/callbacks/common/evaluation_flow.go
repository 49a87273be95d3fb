package common

import (
	"sync"

	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

// EvaluationFlow пошаговое заполнение оценки урока.
// Сначала навыки, затем категории инструктора, затем общая оценка и комментарий.
type EvaluationFlow struct {
	mu    sync.Mutex
	Form  *service.EvaluationForm
	Draft *service.EvaluationDraft
	Step  int
}

func NewEvaluationFlow(form *service.EvaluationForm, editing bool) *EvaluationFlow {
	return &EvaluationFlow{
		Form:  form,
		Draft: service.NewEvaluationDraft(form.Lesson.ID, editing),
	}
}

// Steps количество категорий для оценки
func (f *EvaluationFlow) Steps() int {
	return len(f.Form.SkillCategories) + len(f.Form.InstructorCategories)
}

// Category категория шага; instructor=true для категорий инструктора
func (f *EvaluationFlow) Category(step int) (name string, instructor bool, ok bool) {
	skills := len(f.Form.SkillCategories)
	switch {
	case step < 0 || step >= f.Steps():
		return "", false, false
	case step < skills:
		return f.Form.SkillCategories[step], false, true
	default:
		return f.Form.InstructorCategories[step-skills], true, true
	}
}

// Rate ставит оценку текущему шагу. Нажатие кнопки старого шага отклоняется.
func (f *EvaluationFlow) Rate(step, rank int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if step != f.Step {
		return ErrStaleButton
	}
	level, ok := model.RatingLevelByRank(rank)
	if !ok {
		return ErrInvalidFormat
	}
	name, instructor, ok := f.Category(step)
	if !ok {
		return ErrStaleButton
	}

	if instructor {
		f.Draft.InstructorRatings[name] = level
	} else {
		f.Draft.SkillRatings[name] = level
	}
	f.Step++
	return nil
}

// RatingsDone все категории оценены
func (f *EvaluationFlow) RatingsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.Step >= f.Steps()
}

// SetOverall общая оценка 1-5
func (f *EvaluationFlow) SetOverall(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Draft.OverallRating = rating
	return nil
}

// SetComment комментарий к уроку
func (f *EvaluationFlow) SetComment(comment string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Draft.Comment = comment
}

// DataReader часть StateManager для чтения временных данных
type DataReader interface {
	GetData(telegramID int64, key string) (interface{}, bool)
}

// KeyEvaluationFlow ключ формы в данных состояния
const KeyEvaluationFlow = "evaluation_flow"

// LoadEvaluationFlow форма оценки из состояния пользователя
func LoadEvaluationFlow(sm DataReader, telegramID int64) (*EvaluationFlow, error) {
	value, ok := sm.GetData(telegramID, KeyEvaluationFlow)
	if !ok {
		return nil, ErrFlowExpired
	}
	flow, ok := value.(*EvaluationFlow)
	if !ok || flow == nil {
		return nil, ErrFlowExpired
	}
	return flow, nil
}
