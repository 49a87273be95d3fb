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

const (
	lessonsPerPage  = 5
	defaultTitle    = "Driving lesson"
	defaultLocation = "Location to be confirmed"
	staleNotice     = "⚠️ <i>Could not refresh. Showing the last saved data.</i>"
)

// LoginPromptText приглашение войти
const LoginPromptText = "🔒 You are not logged in.\n\nUse /login to sign in with your Kreno account."

// HelpText справка по командам
const HelpText = "<b>Kreno driving school bot</b>\n\n" +
	"/login - Sign in with your Kreno account\n" +
	"/dashboard - Overview of your lessons\n" +
	"/calendar - Mark when you are available\n" +
	"/lessons - Upcoming and past lessons\n" +
	"/evaluations - Rate your lessons\n" +
	"/theory - Practice theory tests\n" +
	"/services - Your enrolled services\n" +
	"/refresh - Reload data from the server\n" +
	"/profile - Change email or password\n" +
	"/cancel - Cancel the current action\n" +
	"/logout - Sign out"

// LessonTitle название урока или значение по умолчанию
func LessonTitle(l model.Lesson) string {
	if strings.TrimSpace(l.Title) == "" {
		return defaultTitle
	}
	return l.Title
}

// LessonDetails многострочное описание урока (HTML)
func LessonDetails(l model.Lesson, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚗 <b>%s</b>\n", html.EscapeString(LessonTitle(l)))
	fmt.Fprintf(&sb, "📅 %s, %s\n", formatting.FormatLessonDate(l.Date, loc), html.EscapeString(formatting.FormatLessonTime(l)))
	fmt.Fprintf(&sb, "📍 %s", html.EscapeString(l.LocationOr(defaultLocation)))
	if l.SkillName != nil && *l.SkillName != "" {
		fmt.Fprintf(&sb, "\n🎯 %s", html.EscapeString(*l.SkillName))
	}
	return sb.String()
}

// LessonAlert описание урока без разметки для всплывающего окна
func LessonAlert(l model.Lesson, loc *time.Location) string {
	text := fmt.Sprintf("🚗 %s\n📅 %s, %s\n📍 %s",
		LessonTitle(l),
		formatting.FormatLessonDate(l.Date, loc),
		formatting.FormatLessonTime(l),
		l.LocationOr(defaultLocation),
	)
	if l.EvaluationGiven {
		text += "\n⭐ Evaluated"
	}
	return text
}

// MainMenuKeyboard кнопки главного экрана
func MainMenuKeyboard(today time.Time) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(
			keyboard.Button("📅 Calendar", DayCallback(today)),
			keyboard.Button("🚗 Lessons", CallbackLessonsPage+"0"),
		).
		Row(
			keyboard.Button("⭐ Evaluations", CallbackEvaluations),
			keyboard.Button("🧠 Theory", CallbackTheory),
		).
		Row(
			keyboard.Button("🧾 Services", CallbackServices),
			keyboard.Button("🔄 Refresh", CallbackDashboardRefresh),
		).
		Build()
}

// DashboardScreen главный экран
func DashboardScreen(d *service.Dashboard, now time.Time) (string, *models.InlineKeyboardMarkup) {
	loc := now.Location()

	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Welcome, <b>%s</b>!\n\n", html.EscapeString(d.User.DisplayName()))

	if d.NextLesson != nil {
		sb.WriteString("<b>Next lesson</b>\n")
		sb.WriteString(LessonDetails(*d.NextLesson, loc))
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("📭 No upcoming lessons.\n\n")
	}

	fmt.Fprintf(&sb, "🚗 Upcoming: %s\n", formatting.PluralizeLessons(len(d.Upcoming)))
	fmt.Fprintf(&sb, "⭐ Awaiting evaluation: %s\n", formatting.PluralizeLessons(d.PendingEvaluations))
	fmt.Fprintf(&sb, "🕒 Open availability: %s\n", formatting.PluralizeSlots(d.UpcomingSlots))
	if d.ServicesErr != nil {
		sb.WriteString("🧾 Services: <i>unavailable</i>\n")
	} else {
		fmt.Fprintf(&sb, "🧾 Services: %d\n", len(d.Services))
	}

	if d.Stale {
		sb.WriteString("\n" + staleNotice)
	}

	return strings.TrimRight(sb.String(), "\n"), MainMenuKeyboard(now)
}

// LessonsScreen список уроков: сначала предстоящие, затем прошедшие
func LessonsScreen(upcoming, past []model.Lesson, page int, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	type entry struct {
		lesson model.Lesson
		past   bool
	}
	entries := make([]entry, 0, len(upcoming)+len(past))
	for _, l := range upcoming {
		entries = append(entries, entry{lesson: l})
	}
	for _, l := range past {
		entries = append(entries, entry{lesson: l, past: true})
	}

	kb := keyboard.NewBuilder()
	if len(entries) == 0 {
		return "🚗 <b>Your lessons</b>\n\nNo lessons scheduled yet.", kb.AddBackToMainButton().Build()
	}

	start, end, page := keyboard.PageBounds(page, len(entries), lessonsPerPage)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚗 <b>Your lessons</b>\nUpcoming: %d, past: %d\n", len(upcoming), len(past))

	header := ""
	for _, e := range entries[start:end] {
		section := "Upcoming"
		if e.past {
			section = "Past"
		}
		if section != header {
			fmt.Fprintf(&sb, "\n<b>%s</b>\n", section)
			header = section
		}
		sb.WriteString(LessonDetails(e.lesson, loc))
		if e.past {
			if e.lesson.EvaluationGiven {
				sb.WriteString("\n⭐ Evaluated")
			} else {
				sb.WriteString("\n⏳ Awaiting your evaluation")
			}
		}
		sb.WriteString("\n\n")
	}

	kb.AddPagination(CallbackLessonsPage, page, keyboard.TotalPages(len(entries), lessonsPerPage))
	kb.Row(keyboard.Button("⭐ Evaluations", CallbackEvaluations))
	kb.AddBackToMainButton()

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// ServicesScreen услуги, на которые записан студент
func ServicesScreen(services []model.EnrolledService, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔄 Refresh", CallbackServices)).
		AddBackToMainButton()

	if len(services) == 0 {
		return "🧾 <b>Your services</b>\n\nYou are not enrolled in any services.", kb.Build()
	}

	var sb strings.Builder
	sb.WriteString("🧾 <b>Your services</b>\n")
	for _, s := range services {
		status := formatting.GetServiceStatusDisplay(s.Status)
		fmt.Fprintf(&sb, "\n%s <b>%s</b> (%s)\n", status.Emoji, html.EscapeString(s.Type), html.EscapeString(status.Text))
		fmt.Fprintf(&sb, "📅 %s", formatting.FormatLessonDate(s.Date, loc))
		if s.StartTime != "" {
			fmt.Fprintf(&sb, ", %s", html.EscapeString(formatting.FormatTimeRange(s.StartTime, s.EndTime)))
		}
		sb.WriteString("\n")
		if s.Location != "" {
			fmt.Fprintf(&sb, "📍 %s\n", html.EscapeString(s.Location))
		}
		if s.Price != "" {
			fmt.Fprintf(&sb, "💶 %s\n", html.EscapeString(s.Price))
		}
	}

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}
