package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// CellStatus классификация слота сетки дня
type CellStatus string

const (
	CellBooked    CellStatus = "booked"
	CellAvailable CellStatus = "available"
	CellPast      CellStatus = "past"
	CellFree      CellStatus = "free"
)

// ErrUnknownLessonTime время урока неизвестно, урок нельзя разместить в сетке
var ErrUnknownLessonTime = errors.New("lesson time is unknown")

// GridConfig видимый диапазон дня. End - начало последнего слота.
type GridConfig struct {
	Start string
	End   string
	Step  int
}

// DefaultGridConfig 05:00-21:30 с шагом 30 минут
func DefaultGridConfig() GridConfig {
	return GridConfig{Start: "05:00", End: "21:30", Step: SlotMinutes}
}

// Validate проверяет конфигурацию сетки
func (c GridConfig) Validate() error {
	if c.Step <= 0 || c.Step > MinutesPerDay {
		return fmt.Errorf("grid step must be in (0, %d], got %d", MinutesPerDay, c.Step)
	}
	start, err := ParseClock(c.Start)
	if err != nil {
		return fmt.Errorf("grid start: %w", err)
	}
	end, err := ParseClock(c.End)
	if err != nil {
		return fmt.Errorf("grid end: %w", err)
	}
	if end < start {
		return fmt.Errorf("grid end %s is before start %s", c.End, c.Start)
	}
	return nil
}

// Cell один слот сетки дня
type Cell struct {
	Start    string
	End      string
	Interval Interval
	Status   CellStatus
	Lesson   *model.Lesson
	Slot     *model.AvailabilitySlot
}

// LessonInterval возвращает интервал урока с учётом перехода через полночь
func LessonInterval(l model.Lesson) (Interval, error) {
	if l.StartTime == "" || l.StartTime == NotAvailable || l.EndTime == nil {
		return Interval{}, ErrUnknownLessonTime
	}
	return ParseInterval(l.StartTime, *l.EndTime)
}

// LessonStart момент начала урока; false если дата или время неизвестны
func LessonStart(l model.Lesson, loc *time.Location) (time.Time, bool) {
	minutes, err := ParseClock(l.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	day, err := ParseDate(l.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return At(day, minutes), true
}

// LessonDuration длительность урока "1h 30min" или "N/A"
func LessonDuration(l model.Lesson) string {
	return Duration(l.StartTime, l.End())
}

// FindOverlappingLesson ищет урок на дату date, пересекающий интервал
func FindOverlappingLesson(lessons []model.Lesson, date string, candidate Interval) *model.Lesson {
	for i := range lessons {
		if lessons[i].Date != date {
			continue
		}
		interval, err := LessonInterval(lessons[i])
		if err != nil {
			continue
		}
		if interval.Overlaps(candidate) {
			return &lessons[i]
		}
	}
	return nil
}

// BuildDayGrid строит классификацию слотов для выбранного дня.
// Производное представление: не хранит состояние и не делает I/O.
func BuildDayGrid(cfg GridConfig, date time.Time, lessons []model.Lesson, slots []model.AvailabilitySlot, userID string, now time.Time) ([]Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	first, _ := ParseClock(cfg.Start)
	last, _ := ParseClock(cfg.End)
	dateKey := date.Format(DateLayout)

	available := make(map[string]*model.AvailabilitySlot)
	for i := range slots {
		if slots[i].UserID != userID || slots[i].Date != dateKey {
			continue
		}
		available[slots[i].StartTime] = &slots[i]
	}

	cells := make([]Cell, 0, (last-first)/cfg.Step+1)
	for m := first; m <= last; m += cfg.Step {
		end := m + cfg.Step
		cell := Cell{
			Start:    FormatClock(m),
			End:      FormatClock(end),
			Interval: Interval{Start: m, End: end},
		}

		switch lesson := FindOverlappingLesson(lessons, dateKey, cell.Interval); {
		case lesson != nil:
			cell.Status = CellBooked
			cell.Lesson = lesson
		case available[cell.Start] != nil:
			cell.Status = CellAvailable
			cell.Slot = available[cell.Start]
		case At(date, m).Before(now):
			cell.Status = CellPast
		default:
			cell.Status = CellFree
		}

		cells = append(cells, cell)
	}

	return cells, nil
}

// WeekDays возвращает дни недели (Пн-Вс), содержащей date
func WeekDays(date time.Time) []time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	start := day.AddDate(0, 0, -offset)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
