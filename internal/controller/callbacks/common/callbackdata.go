package common

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
)

// ========================
// Callback Data Patterns
// ========================

// Главный экран
const (
	CallbackDashboardRefresh = "dash_refresh"
	CallbackServices         = "services"
	CallbackLessonsPage      = "lessons_page:" // lessons_page:0
)

// Календарь доступности
const (
	CallbackCalendarDay     = "cal_day:"     // cal_day:2025-06-01
	CallbackCalendarSlot    = "cal_slot:"    // cal_slot:2025-06-01:14:00
	CallbackCalendarLesson  = "cal_lesson:"  // cal_lesson:<lesson_id>
	CallbackCalendarWeek    = "cal_week:"    // cal_week:2025-06-01
	CallbackCalendarImage   = "cal_image:"   // cal_image:2025-06-01
	CallbackCalendarRefresh = "cal_refresh:" // cal_refresh:2025-06-01
)

// Оценка уроков
const (
	CallbackEvaluations       = "eval_list"
	CallbackEvaluationOpen    = "eval_open:"    // eval_open:<lesson_id>
	CallbackEvaluationEdit    = "eval_edit:"    // eval_edit:<lesson_id>
	CallbackEvaluationRate    = "eval_rate:"    // eval_rate:<step>:<rank>
	CallbackEvaluationOverall = "eval_overall:" // eval_overall:1..5
	CallbackEvaluationSubmit  = "eval_submit"
	CallbackEvaluationCancel  = "eval_cancel"
)

// Теория
const (
	CallbackTheory         = "theory"
	CallbackTheoryCategory = "theory_cat:"  // theory_cat:<category_id>
	CallbackTheoryAnswer   = "theory_ans:"  // theory_ans:<index>:<option_id>
	CallbackTheorySkip     = "theory_skip:" // theory_skip:<index>
	CallbackTheoryAbort    = "theory_abort"
)

func DayCallback(day time.Time) string {
	return CallbackCalendarDay + day.Format(calendar.DateLayout)
}

func SlotCallback(date, start string) string {
	return CallbackCalendarSlot + date + ":" + start
}

func WeekCallback(day time.Time) string {
	return CallbackCalendarWeek + day.Format(calendar.DateLayout)
}

func RateCallback(step, rank int) string {
	return fmt.Sprintf("%s%d:%d", CallbackEvaluationRate, step, rank)
}

func AnswerOptionCallback(index int, optionID string) string {
	return fmt.Sprintf("%s%d:%s", CallbackTheoryAnswer, index, optionID)
}
