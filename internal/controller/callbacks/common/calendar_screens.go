package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

const slotsPerRow = 3

// CellButton кнопка одной ячейки сетки дня
func CellButton(date string, cell calendar.Cell, pending bool) models.InlineKeyboardButton {
	if pending {
		return keyboard.NoopButton(formatting.PendingDisplay.Emoji + " " + cell.Start)
	}

	display := formatting.GetCellStatusDisplay(cell.Status)
	text := display.Emoji + " " + cell.Start

	switch cell.Status {
	case calendar.CellBooked:
		if cell.Lesson == nil {
			return keyboard.NoopButton(text)
		}
		return keyboard.Button(text, CallbackCalendarLesson+cell.Lesson.ID)
	case calendar.CellAvailable, calendar.CellFree:
		return keyboard.Button(text, SlotCallback(date, cell.Start))
	default:
		return keyboard.NoopButton(text)
	}
}

// DayScreen сетка дня с кнопками переключения доступности
func DayScreen(view *service.DayView, today time.Time) (string, *models.InlineKeyboardMarkup) {
	date := view.Date.Format(calendar.DateLayout)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>%s</b>\n\n", formatting.FormatDayTitle(view.Date, today))

	lessons := view.Lessons()
	if len(lessons) == 0 {
		sb.WriteString("No lessons on this day.\n")
	}
	for _, l := range lessons {
		fmt.Fprintf(&sb, "🚗 %s %s\n",
			html.EscapeString(formatting.FormatTimeRange(l.StartTime, l.End())),
			html.EscapeString(LessonTitle(l)))
	}

	available := 0
	for _, c := range view.Cells {
		if c.Status == calendar.CellAvailable {
			available++
		}
	}
	fmt.Fprintf(&sb, "🕒 You are available for %s.\n\n", formatting.PluralizeSlots(available))
	sb.WriteString("Tap a free slot to mark yourself available, tap again to remove it.\n")
	sb.WriteString("✅ available  ⬜️ free  🚗 lesson  ▪️ past  ⏳ saving")

	if view.Stale {
		sb.WriteString("\n\n" + staleNotice)
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(view.Cells))
	for _, c := range view.Cells {
		_, pending := view.Pending[c.Start]
		buttons = append(buttons, CellButton(date, c, pending))
	}

	kb := keyboard.NewBuilder().Grid(buttons, slotsPerRow)
	kb.Row(
		keyboard.Button("◀️", DayCallback(view.Date.AddDate(0, 0, -1))),
		keyboard.Button("Today", DayCallback(today)),
		keyboard.Button("▶️", DayCallback(view.Date.AddDate(0, 0, 1))),
	)
	kb.Row(
		keyboard.Button("🗓 Week", WeekCallback(view.Date)),
		keyboard.Button("🖼 Image", CallbackCalendarImage+date),
		keyboard.Button("🔄 Refresh", CallbackCalendarRefresh+date),
	)
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// WeekScreen неделя (пн-вс) с количеством уроков по дням
func WeekScreen(days []time.Time, lessons []model.Lesson, today time.Time) (string, *models.InlineKeyboardMarkup) {
	perDay := make(map[string]int)
	for _, l := range lessons {
		perDay[l.Date]++
	}

	var sb strings.Builder
	if len(days) > 0 {
		fmt.Fprintf(&sb, "🗓 <b>Week of %s</b>\n\n", formatting.FormatDate(days[0]))
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	busy := 0
	for _, d := range days {
		date := d.Format(calendar.DateLayout)
		label := formatting.FormatShortDate(d)
		if n := perDay[date]; n > 0 {
			busy++
			fmt.Fprintf(&sb, "%s: %s\n", formatting.FormatDate(d), formatting.PluralizeLessons(n))
			label += fmt.Sprintf(" 🚗%d", n)
		}
		if date == today.Format(calendar.DateLayout) {
			label = "• " + label
		}
		buttons = append(buttons, keyboard.Button(label, DayCallback(d)))
	}
	if busy == 0 {
		sb.WriteString("No lessons this week.\n")
	}
	sb.WriteString("\nPick a day to manage your availability.")

	kb := keyboard.NewBuilder().Grid(buttons, 2)
	if len(days) > 0 {
		kb.Row(
			keyboard.Button("◀️ Previous week", WeekCallback(days[0].AddDate(0, 0, -7))),
			keyboard.Button("Next week ▶️", WeekCallback(days[0].AddDate(0, 0, 7))),
		)
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// DayImageCaption подпись к картинке дня
func DayImageCaption(day, today time.Time) string {
	return fmt.Sprintf("🖼 <b>%s</b>", formatting.FormatDayTitle(day, today))
}
