package model

import "time"

// RatingLevel качественная оценка навыка (пять упорядоченных уровней)
type RatingLevel string

const (
	RatingVeryPoor RatingLevel = "Very Poor"
	RatingPoor     RatingLevel = "Poor"
	RatingOkay     RatingLevel = "Okay"
	RatingGood     RatingLevel = "Good"
	RatingVeryGood RatingLevel = "Very Good"
)

// RatingLevels уровни в порядке возрастания
var RatingLevels = []RatingLevel{
	RatingVeryPoor,
	RatingPoor,
	RatingOkay,
	RatingGood,
	RatingVeryGood,
}

// Rank возвращает позицию уровня (1..5) или 0 для неизвестного
func (r RatingLevel) Rank() int {
	for i, level := range RatingLevels {
		if level == r {
			return i + 1
		}
	}
	return 0
}

// Valid проверяет что уровень входит в шкалу
func (r RatingLevel) Valid() bool {
	return r.Rank() > 0
}

// RatingLevelByRank возвращает уровень по позиции 1..5
func RatingLevelByRank(rank int) (RatingLevel, bool) {
	if rank < 1 || rank > len(RatingLevels) {
		return "", false
	}
	return RatingLevels[rank-1], true
}

// InstructorCategories категории оценки инструктора
var InstructorCategories = []string{
	"Communication & Clarity",
	"Patience & Supportiveness",
	"Professionalism & Attitude",
	"Punctuality & Preparedness",
}

// Evaluation оценка урока студентом
type Evaluation struct {
	LessonID          string                 `json:"lessonId" validate:"required"`
	SkillRatings      map[string]RatingLevel `json:"skillRatings" validate:"required,min=1,dive,keys,required,endkeys,rating_level"`
	InstructorRatings map[string]RatingLevel `json:"instructorRatings" validate:"omitempty,dive,keys,required,endkeys,rating_level"`
	OverallRating     int                    `json:"overallLessonRating" validate:"required,min=1,max=5"`
	Comment           string                 `json:"comment" validate:"required"`
	SubmittedAt       time.Time              `json:"submittedAt"`
}

// EvaluationReceipt локальная отметка об отправленной оценке,
// нужна для проверки окна редактирования
type EvaluationReceipt struct {
	TelegramID  int64      `json:"telegram_id"`
	UserID      string     `json:"user_id"`
	LessonID    string     `json:"lesson_id"`
	SubmittedAt time.Time  `json:"submitted_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
