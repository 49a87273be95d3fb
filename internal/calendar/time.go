package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60
	// SlotMinutes длительность слота доступности
	SlotMinutes = 30
	// Midnight конец дня в записи бэкенда
	Midnight = "00:00"
	// NotAvailable маркер неизвестного времени
	NotAvailable = "N/A"
	// DateLayout формат даты бэкенда
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidClock     = errors.New("invalid HH:mm time")
	ErrInvertedInterval = errors.New("interval ends before it starts")
	ErrInvalidDate      = errors.New("invalid YYYY-MM-DD date")
)

// Interval полуоткрытый интервал [Start, End) в минутах от начала дня
type Interval struct {
	Start int
	End   int
}

// ParseClock переводит "HH:mm" в минуты от полуночи
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hours, err := strconv.Atoi(s[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	minutes, err := strconv.Atoi(s[3:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	// Atoi принимает знак, а нам нужны только цифры
	if !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return hours*60 + minutes, nil
}

// FormatClock переводит минуты в "HH:mm"; 1440 записывается как "24:00"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock приводит время из API ("9:5", "09:05", "09:05:00") к "HH:mm"
func NormalizeClock(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", false
	}

	hours := strings.TrimSpace(parts[0])
	minutes := strings.TrimSpace(parts[1])
	if len(hours) == 1 {
		hours = "0" + hours
	}
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}

	clock := hours + ":" + minutes
	if _, err := ParseClock(clock); err != nil {
		return "", false
	}
	return clock, true
}

// ParseInterval разбирает пару "HH:mm" с учётом перехода через полночь.
// Только буквальный конец "00:00" при ненулевом начале означает 24:00;
// ненулевым считается любое начало после 00:00, в том числе 00:30.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}

	if e < s {
		if end != Midnight {
			return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvertedInterval, start, end)
		}
		e = MinutesPerDay
	}

	return Interval{Start: s, End: e}, nil
}

// SlotInterval возвращает получасовое окно, начинающееся в start
func SlotInterval(start string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: s + SlotMinutes}, nil
}

// Overlaps проверяет пересечение: max(s1,s2) < min(e1,e2)
func (i Interval) Overlaps(other Interval) bool {
	return max(i.Start, other.Start) < min(i.End, other.End)
}

// Minutes длительность интервала
func (i Interval) Minutes() int {
	return i.End - i.Start
}

// Duration возвращает длительность в виде "1h 30min" или "N/A"
func Duration(start, end string) string {
	if start == "" || end == "" || start == NotAvailable || end == NotAvailable {
		return NotAvailable
	}

	interval, err := ParseInterval(start, end)
	if err != nil {
		return NotAvailable
	}

	return FormatMinutes(interval.Minutes())
}

// FormatMinutes форматирует количество минут
func FormatMinutes(total int) string {
	hours := total / 60
	minutes := total % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dmin", minutes)
	}
}

// ParseDate разбирает дату "YYYY-MM-DD" в указанной зоне
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// At возвращает момент, когда на часах даты показывается minutes от полуночи.
// Считается по настенному времени, а не сложением длительностей: в день
// перевода часов полночь+N минут дает другое время на часах.
func At(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
