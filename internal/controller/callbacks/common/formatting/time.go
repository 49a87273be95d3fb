package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// FormatDate форматирует дату: "Sat, 31 May 2025"
func FormatDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006")
}

// FormatShortDate форматирует дату для кнопок: "Sat 31"
func FormatShortDate(t time.Time) string {
	return t.Format("Mon 02")
}

// FormatDayTitle заголовок дня с пометкой сегодня/завтра
func FormatDayTitle(day, today time.Time) string {
	switch {
	case sameDay(day, today):
		return "Today, " + FormatDate(day)
	case sameDay(day, today.AddDate(0, 0, 1)):
		return "Tomorrow, " + FormatDate(day)
	case sameDay(day, today.AddDate(0, 0, -1)):
		return "Yesterday, " + FormatDate(day)
	default:
		return FormatDate(day)
	}
}

// FormatLessonDate дата урока из строки YYYY-MM-DD, при ошибке разбора строка как есть
func FormatLessonDate(date string, loc *time.Location) string {
	t, err := calendar.ParseDate(date, loc)
	if err != nil {
		return date
	}
	return FormatDate(t)
}

// FormatLessonTime "09:00-10:30 (1h 30min)"
func FormatLessonTime(l model.Lesson) string {
	end := l.End()
	if end == "" {
		return l.StartTime
	}
	return fmt.Sprintf("%s-%s (%s)", l.StartTime, end, calendar.LessonDuration(l))
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end string) string {
	if end == "" {
		return start
	}
	return start + "-" + end
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
