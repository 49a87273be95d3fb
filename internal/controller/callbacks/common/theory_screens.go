package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

const mistakesListed = 5

var categoryIcons = map[string]string{
	"road":        "🪧",
	"cone":        "🚧",
	"car":         "🚙",
	"highway":     "🛣",
	"seatbelt":    "🦺",
	"generaltest": "📝",
}

// CategoryIcon emoji категории теста
func CategoryIcon(c model.TestCategory) string {
	if icon, ok := categoryIcons[c.IconKey]; ok {
		return icon
	}
	return "🧠"
}

// optionLabel буква варианта ответа: A, B, C...
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// TheoryCategoriesScreen выбор категории теста
func TheoryCategoriesScreen(categories []model.TestCategory) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("🧠 <b>Theory practice</b>\n\nChoose a category:\n")

	kb := keyboard.NewBuilder()
	for _, c := range categories {
		icon := CategoryIcon(c)
		fmt.Fprintf(&sb, "\n%s <b>%s</b>\n<i>%s</i>\n", icon, html.EscapeString(c.Title), html.EscapeString(c.Description))
		kb.Row(keyboard.Button(icon+" "+c.Title, CallbackTheoryCategory+c.ID))
	}
	kb.AddBackToMainButton()

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// TheoryQuestionScreen текущий вопрос теста
func TheoryQuestionScreen(run *service.TestRun) (string, *models.InlineKeyboardMarkup) {
	q, idx, ok := run.Current()
	if !ok {
		return TheoryResultScreen(run, nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>\nQuestion %d/%d · Score %d\n\n", CategoryIcon(run.Category), html.EscapeString(run.Category.Title), idx+1, run.Total(), run.Score)
	fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(q.Text))

	buttons := make([]models.InlineKeyboardButton, 0, len(q.Options))
	for i, o := range q.Options {
		label := optionLabel(i)
		fmt.Fprintf(&sb, "\n<b>%s.</b> %s", label, html.EscapeString(o.Text))
		buttons = append(buttons, keyboard.Button(label, AnswerOptionCallback(idx, o.ID)))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 4).
		Row(
			keyboard.Button("⏭ Skip", fmt.Sprintf("%s%d", CallbackTheorySkip, idx)),
			keyboard.Button("🛑 Stop test", CallbackTheoryAbort),
		)

	return sb.String(), kb.Build()
}

// AnswerFeedback короткий ответ на выбор варианта
func AnswerFeedback(q model.Question, correct bool) string {
	if correct {
		return "✅ Correct!"
	}
	for i, o := range q.Options {
		if o.ID == q.CorrectOptionID {
			return fmt.Sprintf("❌ Wrong. Correct answer: %s. %s", optionLabel(i), o.Text)
		}
	}
	return "❌ Wrong."
}

// TheoryResultScreen итог теста; saveErr - ошибка сохранения результата
func TheoryResultScreen(run *service.TestRun, saveErr error) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏁 <b>%s</b>\n\n", html.EscapeString(run.Category.Title))
	fmt.Fprintf(&sb, "Score: <b>%d/%d</b>\n", run.Score, run.Total())
	sb.WriteString(html.EscapeString(service.PerformanceMessage(run.Score, run.Total())))
	sb.WriteString("\n")

	listed := 0
	for _, a := range run.Answered {
		if a.IsCorrect {
			continue
		}
		if listed == 0 {
			sb.WriteString("\n<b>Review</b>\n")
		}
		if listed == mistakesListed {
			sb.WriteString("…\n")
			break
		}
		listed++

		answer := "skipped"
		if a.UserAnswer != nil {
			answer = optionText(a.Question, *a.UserAnswer)
		}
		fmt.Fprintf(&sb, "• %s\n  Your answer: %s\n  Correct: %s\n",
			html.EscapeString(a.Text),
			html.EscapeString(answer),
			html.EscapeString(optionText(a.Question, a.CorrectOptionID)))
	}

	if saveErr != nil {
		sb.WriteString("\n⚠️ Your result could not be saved: " + html.EscapeString(ErrorMessage(saveErr)))
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("🔁 Try again", CallbackTheoryCategory+run.Category.ID),
			keyboard.Button("🧠 Categories", CallbackTheory),
		).
		AddBackToMainButton()

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

func optionText(q model.Question, optionID string) string {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o.Text
		}
	}
	return optionID
}
