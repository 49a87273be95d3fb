package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// SlotAction результат переключения слота
type SlotAction string

const (
	SlotAdded   SlotAction = "added"
	SlotRemoved SlotAction = "removed"
)

// DayView сетка дня для отображения
type DayView struct {
	Date  time.Time
	Cells []calendar.Cell
	// Pending операции над слотами, ожидающие ответа сервера (по времени начала)
	Pending map[string]string
	// Stale данные показаны из последнего успешного снимка
	Stale bool
	Err   error
}

// Lessons уроки выбранного дня
func (v *DayView) Lessons() []model.Lesson {
	seen := make(map[string]bool)
	var lessons []model.Lesson
	for _, c := range v.Cells {
		if c.Lesson == nil || seen[c.Lesson.ID] {
			continue
		}
		seen[c.Lesson.ID] = true
		lessons = append(lessons, *c.Lesson)
	}
	return lessons
}

type CalendarService struct {
	sessions *SessionService
	grid     calendar.GridConfig
	logger   *zap.Logger
}

func NewCalendarService(sessions *SessionService, grid calendar.GridConfig, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		sessions: sessions,
		grid:     grid,
		logger:   logger,
	}
}

// Today текущий день в часовом поясе расписания
func (s *CalendarService) Today() time.Time {
	now := s.sessions.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ParseDay разбирает дату из callback
func (s *CalendarService) ParseDay(date string) (time.Time, error) {
	day, err := calendar.ParseDate(date, s.sessions.Location())
	if err != nil {
		return time.Time{}, apperr.ErrInvalidDate.WithError(err)
	}
	return day, nil
}

// WeekView дни недели с уроками
type WeekView struct {
	Days    []time.Time
	Lessons []model.Lesson
	Stale   bool
}

// Week дни недели (пн-вс), содержащей day, и уроки этих дней
func (s *CalendarService) Week(ctx context.Context, telegramID int64, day time.Time) (*WeekView, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	fetchErr := cache.Fetch(ctx, false)
	lessons := cache.Lessons()
	if fetchErr != nil && !lessons.Loaded {
		return nil, fetchErr
	}

	days := calendar.WeekDays(day)
	first := days[0].Format(calendar.DateLayout)
	last := days[len(days)-1].Format(calendar.DateLayout)

	view := &WeekView{
		Days:  days,
		Stale: fetchErr != nil || lessons.Stale(),
	}
	for _, l := range lessons.Items {
		if l.Date >= first && l.Date <= last {
			view.Lessons = append(view.Lessons, l)
		}
	}
	return view, nil
}

// Day загружает данные (если нужно) и строит сетку дня.
// При ошибке загрузки показывается последний снимок, если он есть.
func (s *CalendarService) Day(ctx context.Context, telegramID int64, day time.Time) (*DayView, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	fetchErr := cache.Fetch(ctx, false)
	lessons, availability := cache.Lessons(), cache.Availability()
	if fetchErr != nil && !(lessons.Loaded && availability.Loaded) {
		return nil, fetchErr
	}

	cells, err := cache.DayGrid(s.grid, day)
	if err != nil {
		return nil, fmt.Errorf("build day grid: %w", err)
	}

	view := &DayView{
		Date:    day,
		Cells:   cells,
		Pending: make(map[string]string),
		Stale:   fetchErr != nil || lessons.Stale() || availability.Stale(),
		Err:     fetchErr,
	}

	user := cache.User()
	for _, c := range cells {
		key := model.SlotKey{UserID: user.UserID, Date: day.Format(calendar.DateLayout), StartTime: c.Start}
		if op, ok := cache.Pending(key); ok {
			view.Pending[c.Start] = op
		}
	}

	return view, nil
}

// Refresh принудительно перезагружает уроки и доступность
func (s *CalendarService) Refresh(ctx context.Context, telegramID int64) error {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return err
	}
	return cache.Fetch(ctx, true)
}

// ToggleSlot отмечает свободный слот доступным или снимает отметку
func (s *CalendarService) ToggleSlot(ctx context.Context, telegramID int64, date, start string) (SlotAction, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return "", err
	}

	day, err := s.ParseDay(date)
	if err != nil {
		return "", err
	}
	if err := cache.Fetch(ctx, false); err != nil && !cache.Availability().Loaded {
		return "", err
	}

	cells, err := cache.DayGrid(s.grid, day)
	if err != nil {
		return "", fmt.Errorf("build day grid: %w", err)
	}

	var cell *calendar.Cell
	for i := range cells {
		if cells[i].Start == start {
			cell = &cells[i]
			break
		}
	}
	if cell == nil {
		return "", apperr.ErrInvalidTime.WithMessage("%s is outside the visible day", start)
	}

	switch cell.Status {
	case calendar.CellBooked:
		return "", apperr.ErrSlotBooked
	case calendar.CellPast:
		return "", apperr.ErrSlotInPast
	case calendar.CellAvailable:
		key := model.SlotKey{UserID: cache.User().UserID, Date: date, StartTime: start}
		if err := cache.RemoveAvailabilitySlot(ctx, key); err != nil {
			return "", err
		}
		return SlotRemoved, nil
	default:
		if _, err := cache.AddAvailabilitySlot(ctx, date, start); err != nil {
			return "", err
		}
		return SlotAdded, nil
	}
}

// DayImage PNG сетки дня
func (s *CalendarService) DayImage(ctx context.Context, telegramID int64, day time.Time) ([]byte, error) {
	view, err := s.Day(ctx, telegramID, day)
	if err != nil {
		return nil, err
	}
	return calendar.RenderDayImage(day, view.Cells)
}

// Lesson урок из кеша по ID
func (s *CalendarService) Lesson(ctx context.Context, telegramID int64, lessonID string) (model.Lesson, error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return model.Lesson{}, err
	}
	lesson, ok := cache.Lesson(lessonID)
	if !ok {
		return model.Lesson{}, apperr.ErrLessonNotFound
	}
	return lesson, nil
}
