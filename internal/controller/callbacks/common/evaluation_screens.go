package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

const evaluationsListed = 8

func evaluationLessonLabel(l model.Lesson) string {
	return Truncate(fmt.Sprintf("%s · %s %s", LessonTitle(l), l.Date, l.StartTime), 60)
}

// EvaluationsScreen уроки, ожидающие оценки, и уже оцененные
func EvaluationsScreen(overview *service.EvaluationOverview, editWindow time.Duration) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var sb strings.Builder
	sb.WriteString("⭐ <b>Lesson evaluations</b>\n\n")

	if len(overview.Pending) == 0 {
		sb.WriteString("✅ All your past lessons are evaluated.\n")
	} else {
		fmt.Fprintf(&sb, "⏳ Awaiting evaluation: %s\n", formatting.PluralizeLessons(len(overview.Pending)))
		for i, l := range overview.Pending {
			if i == evaluationsListed {
				break
			}
			kb.Row(keyboard.Button("⭐ "+evaluationLessonLabel(l), CallbackEvaluationOpen+l.ID))
		}
	}

	if len(overview.Completed) > 0 {
		fmt.Fprintf(&sb, "✔️ Evaluated: %s\n", formatting.PluralizeLessons(len(overview.Completed)))
		fmt.Fprintf(&sb, "\nEvaluations can be edited within %d hours after submitting.\n", int(editWindow.Hours()))
		for i, l := range overview.Completed {
			if i == evaluationsListed {
				break
			}
			kb.Row(keyboard.Button("✏️ "+evaluationLessonLabel(l), CallbackEvaluationEdit+l.ID))
		}
	}

	if overview.Stale {
		sb.WriteString("\n" + staleNotice)
	}

	kb.AddBackToMainButton()
	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

func evaluationHeader(flow *EvaluationFlow) string {
	verb := "Evaluate"
	if flow.Draft.Editing {
		verb = "Edit evaluation"
	}
	return fmt.Sprintf("⭐ <b>%s: %s</b>\n📅 %s %s\n\n",
		verb,
		html.EscapeString(LessonTitle(flow.Form.Lesson)),
		html.EscapeString(flow.Form.Lesson.Date),
		html.EscapeString(flow.Form.Lesson.StartTime))
}

// EvaluationStepScreen оценка одной категории
func EvaluationStepScreen(flow *EvaluationFlow) (string, *models.InlineKeyboardMarkup) {
	name, instructor, ok := flow.Category(flow.Step)
	if !ok {
		return EvaluationOverallScreen(flow)
	}

	kind := "Skill"
	if instructor {
		kind = "Instructor"
	}

	var sb strings.Builder
	sb.WriteString(evaluationHeader(flow))
	fmt.Fprintf(&sb, "Step %d/%d\n%s: <b>%s</b>\n\nHow did it go?", flow.Step+1, flow.Steps(), kind, html.EscapeString(name))

	kb := keyboard.NewBuilder()
	for i, level := range model.RatingLevels {
		display := formatting.GetRatingDisplay(level)
		kb.Row(keyboard.Button(display.Emoji+" "+display.Text, RateCallback(flow.Step, i+1)))
	}
	kb.Row(keyboard.CancelButton(CallbackEvaluationCancel))

	return sb.String(), kb.Build()
}

// EvaluationOverallScreen общая оценка урока в звёздах
func EvaluationOverallScreen(flow *EvaluationFlow) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(evaluationHeader(flow))
	sb.WriteString("How would you rate the lesson overall?")

	stars := make([]models.InlineKeyboardButton, 0, 5)
	for n := 1; n <= 5; n++ {
		stars = append(stars, keyboard.Button(fmt.Sprintf("%d⭐", n), fmt.Sprintf("%s%d", CallbackEvaluationOverall, n)))
	}

	kb := keyboard.NewBuilder().
		Row(stars...).
		Row(keyboard.CancelButton(CallbackEvaluationCancel))

	return sb.String(), kb.Build()
}

// EvaluationCommentScreen запрос комментария
func EvaluationCommentScreen(flow *EvaluationFlow) (string, *models.InlineKeyboardMarkup) {
	text := evaluationHeader(flow) +
		fmt.Sprintf("Overall: %s\n\n✍️ Send a short comment about the lesson.", formatting.Stars(flow.Draft.OverallRating, 5))

	kb := keyboard.NewBuilder().Row(keyboard.CancelButton(CallbackEvaluationCancel))
	return text, kb.Build()
}

func writeRatings(sb *strings.Builder, title string, categories []string, ratings map[string]model.RatingLevel) {
	if len(categories) == 0 {
		return
	}
	fmt.Fprintf(sb, "<b>%s</b>\n", title)
	for _, c := range categories {
		display := formatting.GetRatingDisplay(ratings[c])
		fmt.Fprintf(sb, "%s %s: %s\n", display.Emoji, html.EscapeString(c), html.EscapeString(display.Text))
	}
	sb.WriteString("\n")
}

// EvaluationSummaryScreen итог перед отправкой
func EvaluationSummaryScreen(flow *EvaluationFlow) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(evaluationHeader(flow))
	writeRatings(&sb, "Skills", flow.Form.SkillCategories, flow.Draft.SkillRatings)
	writeRatings(&sb, "Instructor", flow.Form.InstructorCategories, flow.Draft.InstructorRatings)
	fmt.Fprintf(&sb, "<b>Overall:</b> %s\n", formatting.Stars(flow.Draft.OverallRating, 5))
	fmt.Fprintf(&sb, "<b>Comment:</b> %s", html.EscapeString(flow.Draft.Comment))

	action := "Submit"
	if flow.Draft.Editing {
		action = "Update"
	}
	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelButtons(action, CallbackEvaluationSubmit, CallbackEvaluationCancel)...)

	return sb.String(), kb.Build()
}

// EvaluationDoneText сообщение после отправки
func EvaluationDoneText(flow *EvaluationFlow) string {
	if flow.Draft.Editing {
		return fmt.Sprintf("✅ Evaluation for <b>%s</b> updated.", html.EscapeString(LessonTitle(flow.Form.Lesson)))
	}
	return fmt.Sprintf("✅ Thank you! Evaluation for <b>%s</b> submitted.", html.EscapeString(LessonTitle(flow.Form.Lesson)))
}

// ReminderScreen напоминание об уроках без оценки
func ReminderScreen(lessons []model.Lesson) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏰ You have %s waiting for your evaluation:\n\n", formatting.PluralizeLessons(len(lessons)))

	kb := keyboard.NewBuilder()
	for i, l := range lessons {
		if i == evaluationsListed {
			break
		}
		fmt.Fprintf(&sb, "• %s\n", html.EscapeString(evaluationLessonLabel(l)))
		kb.Row(keyboard.Button("⭐ "+evaluationLessonLabel(l), CallbackEvaluationOpen+l.ID))
	}
	kb.Row(keyboard.Button("📋 All evaluations", CallbackEvaluations))

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}
