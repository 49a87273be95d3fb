package common

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

var screenNow = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func allButtons(kb *models.InlineKeyboardMarkup) []models.InlineKeyboardButton {
	var out []models.InlineKeyboardButton
	for _, row := range kb.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func buttonByData(kb *models.InlineKeyboardMarkup, data string) (models.InlineKeyboardButton, bool) {
	for _, b := range allButtons(kb) {
		if b.CallbackData == data {
			return b, true
		}
	}
	return models.InlineKeyboardButton{}, false
}

func TestCellButton(t *testing.T) {
	lesson := &model.Lesson{ID: "l1"}

	booked := CellButton("2025-06-01", calendar.Cell{Start: "10:00", Status: calendar.CellBooked, Lesson: lesson}, false)
	assert.Equal(t, "cal_lesson:l1", booked.CallbackData)

	free := CellButton("2025-06-01", calendar.Cell{Start: "14:00", Status: calendar.CellFree}, false)
	assert.Equal(t, "cal_slot:2025-06-01:14:00", free.CallbackData)
	assert.Equal(t, "⬜️ 14:00", free.Text)

	available := CellButton("2025-06-01", calendar.Cell{Start: "14:30", Status: calendar.CellAvailable}, false)
	assert.Equal(t, "cal_slot:2025-06-01:14:30", available.CallbackData)

	past := CellButton("2025-06-01", calendar.Cell{Start: "06:00", Status: calendar.CellPast}, false)
	assert.Equal(t, keyboard.CallbackNoop, past.CallbackData)

	pending := CellButton("2025-06-01", calendar.Cell{Start: "15:00", Status: calendar.CellFree}, true)
	assert.Equal(t, keyboard.CallbackNoop, pending.CallbackData)
	assert.True(t, strings.HasPrefix(pending.Text, "⏳"))
}

func TestDayScreen(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lesson := &model.Lesson{ID: "l1", Title: "Roundabouts", Date: "2025-06-01", StartTime: "10:00", EndTime: strPtr("11:00")}
	view := &service.DayView{
		Date: day,
		Cells: []calendar.Cell{
			{Start: "10:00", Status: calendar.CellBooked, Lesson: lesson},
			{Start: "10:30", Status: calendar.CellBooked, Lesson: lesson},
			{Start: "11:00", Status: calendar.CellAvailable},
			{Start: "11:30", Status: calendar.CellFree},
		},
		Pending: map[string]string{"11:30": "add"},
		Stale:   true,
	}

	text, kb := DayScreen(view, screenNow)
	assert.Contains(t, text, "Tomorrow, Sun, 01 Jun 2025")
	assert.Contains(t, text, "Roundabouts")
	assert.Equal(t, 1, strings.Count(text, "Roundabouts"))
	assert.Contains(t, text, "1 slot")
	assert.Contains(t, text, "Could not refresh")

	_, ok := buttonByData(kb, "cal_slot:2025-06-01:11:00")
	assert.True(t, ok)
	_, ok = buttonByData(kb, "cal_slot:2025-06-01:11:30")
	assert.False(t, ok, "pending slot is not clickable")
	_, ok = buttonByData(kb, "cal_day:2025-05-31")
	assert.True(t, ok, "previous day and today")
	_, ok = buttonByData(kb, "cal_day:2025-06-02")
	assert.True(t, ok)
	_, ok = buttonByData(kb, "cal_week:2025-06-01")
	assert.True(t, ok)
}

func TestWeekScreen(t *testing.T) {
	days := calendar.WeekDays(screenNow)
	lessons := []model.Lesson{{ID: "1", Date: "2025-05-28"}, {ID: "2", Date: "2025-05-28"}}

	text, kb := WeekScreen(days, lessons, screenNow)
	assert.Contains(t, text, "Week of Mon, 26 May 2025")
	assert.Contains(t, text, "2 lessons")

	wed, ok := buttonByData(kb, "cal_day:2025-05-28")
	require.True(t, ok)
	assert.Contains(t, wed.Text, "🚗2")

	sat, ok := buttonByData(kb, "cal_day:2025-05-31")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sat.Text, "•"))

	_, ok = buttonByData(kb, "cal_week:2025-05-19")
	assert.True(t, ok)
}

func TestDashboardScreen(t *testing.T) {
	next := model.Lesson{ID: "n", Title: "Motorway <intro>", Date: "2025-06-01", StartTime: "09:00", EndTime: strPtr("10:30")}
	dash := &service.Dashboard{
		User:               model.User{FullName: "Ann Driver"},
		NextLesson:         &next,
		Upcoming:           []model.Lesson{next},
		PendingEvaluations: 2,
		UpcomingSlots:      1,
		ServicesErr:        errors.New("down"),
	}

	text, kb := DashboardScreen(dash, screenNow)
	assert.Contains(t, text, "Ann Driver")
	assert.Contains(t, text, "Motorway &lt;intro&gt;")
	assert.Contains(t, text, "09:00-10:30 (1h 30min)")
	assert.Contains(t, text, "Awaiting evaluation: 2 lessons")
	assert.Contains(t, text, "1 slot")
	assert.Contains(t, text, "unavailable")
	assert.NotContains(t, text, "Could not refresh")

	_, ok := buttonByData(kb, "cal_day:2025-05-31")
	assert.True(t, ok)
}

func TestLessonsScreen_Pagination(t *testing.T) {
	var upcoming, past []model.Lesson
	for i := 0; i < 4; i++ {
		upcoming = append(upcoming, model.Lesson{ID: "u", Date: "2025-06-02", StartTime: "09:00"})
		past = append(past, model.Lesson{ID: "p", Date: "2025-05-20", StartTime: "09:00", EvaluationGiven: i%2 == 0})
	}

	text, kb := LessonsScreen(upcoming, past, 1, time.UTC)
	assert.Contains(t, text, "Past")
	assert.NotContains(t, text, "<b>Upcoming</b>")
	assert.Contains(t, text, "Awaiting your evaluation")

	_, ok := buttonByData(kb, "lessons_page:0")
	assert.True(t, ok)
	_, ok = buttonByData(kb, "lessons_page:2")
	assert.False(t, ok)

	text, _ = LessonsScreen(nil, nil, 0, time.UTC)
	assert.Contains(t, text, "No lessons")
}

func TestEvaluationScreens(t *testing.T) {
	flow := NewEvaluationFlow(testForm(), false)

	text, kb := EvaluationStepScreen(flow)
	assert.Contains(t, text, "Step 1/3")
	assert.Contains(t, text, "Parallel parking")
	require.Len(t, kb.InlineKeyboard, len(model.RatingLevels)+1)
	assert.Equal(t, "eval_rate:0:1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "eval_rate:0:5", kb.InlineKeyboard[4][0].CallbackData)

	for step := 0; step < flow.Steps(); step++ {
		require.NoError(t, flow.Rate(step, 3))
	}
	text, kb = EvaluationStepScreen(flow)
	assert.Contains(t, text, "overall")
	_, ok := buttonByData(kb, "eval_overall:5")
	assert.True(t, ok)

	require.NoError(t, flow.SetOverall(4))
	flow.SetComment("Calm & clear")
	text, kb = EvaluationSummaryScreen(flow)
	assert.Contains(t, text, "★★★★☆")
	assert.Contains(t, text, "Calm &amp; clear")
	assert.Contains(t, text, "Okay")
	submit, ok := buttonByData(kb, CallbackEvaluationSubmit)
	require.True(t, ok)
	assert.Equal(t, "✅ Submit", submit.Text)
}

func TestEvaluationsScreen(t *testing.T) {
	overview := &service.EvaluationOverview{
		Pending:   []model.Lesson{{ID: "p1", Date: "2025-05-30", StartTime: "09:00"}},
		Completed: []model.Lesson{{ID: "c1", Date: "2025-05-29", StartTime: "09:00", EvaluationGiven: true}},
	}

	text, kb := EvaluationsScreen(overview, 72*time.Hour)
	assert.Contains(t, text, "72 hours")

	_, ok := buttonByData(kb, "eval_open:p1")
	assert.True(t, ok)
	_, ok = buttonByData(kb, "eval_edit:c1")
	assert.True(t, ok)
}

func TestTheoryScreens(t *testing.T) {
	category, _ := model.CategoryByID("1")
	q := model.Question{
		ID:              "q1",
		Text:            "What does a red light mean?",
		Options:         []model.Option{{ID: "a", Text: "Stop"}, {ID: "b", Text: "Go"}},
		CorrectOptionID: "a",
	}
	run := &service.TestRun{Category: category, Questions: []model.Question{q, q}}

	text, kb := TheoryQuestionScreen(run)
	assert.Contains(t, text, "Question 1/2")
	assert.Contains(t, text, "<b>B.</b> Go")
	_, ok := buttonByData(kb, "theory_ans:0:b")
	assert.True(t, ok)
	_, ok = buttonByData(kb, "theory_skip:0")
	assert.True(t, ok)

	assert.Equal(t, "✅ Correct!", AnswerFeedback(q, true))
	assert.Equal(t, "❌ Wrong. Correct answer: A. Stop", AnswerFeedback(q, false))

	wrong := "b"
	run.Answered = []model.AnsweredQuestion{
		{Question: q, UserAnswer: &wrong},
		{Question: q},
	}
	text, kb = TheoryResultScreen(run, errors.New("offline"))
	assert.Contains(t, text, "Score: <b>0/2</b>")
	assert.Contains(t, text, "Your answer: Go")
	assert.Contains(t, text, "Your answer: skipped")
	assert.Contains(t, text, "could not be saved")
	_, ok = buttonByData(kb, "theory_cat:1")
	assert.True(t, ok)
}

func TestTheoryCategoriesScreen(t *testing.T) {
	text, kb := TheoryCategoriesScreen(model.TestCategories)
	assert.Contains(t, text, "General Test")
	_, ok := buttonByData(kb, "theory_cat:6")
	assert.True(t, ok)
	assert.Equal(t, "📝", CategoryIcon(model.TestCategories[5]))
}

func TestReminderScreen(t *testing.T) {
	text, kb := ReminderScreen([]model.Lesson{{ID: "l1", Title: "Hill starts", Date: "2025-05-30", StartTime: "09:00"}})
	assert.Contains(t, text, "1 lesson waiting")
	_, ok := buttonByData(kb, "eval_open:l1")
	assert.True(t, ok)
}
