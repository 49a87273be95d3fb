package service

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// Dashboard сводка для главного экрана
type Dashboard struct {
	User               model.User
	NextLesson         *model.Lesson
	Upcoming           []model.Lesson
	PendingEvaluations int
	UpcomingSlots      int
	Services           []model.EnrolledService
	// ServicesErr услуги не загрузились, остальная сводка показывается
	ServicesErr error
	Stale       bool
}

type DashboardService struct {
	sessions *SessionService
	backend  Backend
	logger   *zap.Logger
}

func NewDashboardService(sessions *SessionService, backend Backend, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		sessions: sessions,
		backend:  backend,
		logger:   logger,
	}
}

// UpcomingLessons будущие уроки по возрастанию начала
func UpcomingLessons(lessons []model.Lesson, now time.Time) []model.Lesson {
	type dated struct {
		lesson model.Lesson
		start  time.Time
	}

	var upcoming []dated
	for _, l := range lessons {
		start, ok := calendar.LessonStart(l, now.Location())
		if !ok || start.Before(now) {
			continue
		}
		upcoming = append(upcoming, dated{lesson: l, start: start})
	}
	slices.SortStableFunc(upcoming, func(a, b dated) int {
		return a.start.Compare(b.start)
	})

	result := make([]model.Lesson, 0, len(upcoming))
	for _, d := range upcoming {
		result = append(result, d.lesson)
	}
	return result
}

// CountUpcomingSlots количество слотов доступности, которые еще не начались
func CountUpcomingSlots(slots []model.AvailabilitySlot, now time.Time) int {
	count := 0
	for _, slot := range slots {
		date, err := calendar.ParseDate(slot.Date, now.Location())
		if err != nil {
			continue
		}
		start, err := calendar.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		if !calendar.At(date, start).Before(now) {
			count++
		}
	}
	return count
}

// Dashboard собирает сводку. Ошибка услуг не ломает экран.
func (s *DashboardService) Dashboard(ctx context.Context, telegramID int64) (*Dashboard, error) {
	active, err := s.sessions.Require(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	cache := active.Cache

	fetchErr := cache.Fetch(ctx, false)
	lessons, availability := cache.Lessons(), cache.Availability()
	if fetchErr != nil && !lessons.Loaded && !availability.Loaded {
		return nil, fetchErr
	}

	now := cache.Now()
	upcoming := UpcomingLessons(lessons.Items, now)
	pending, _ := SplitLessons(lessons.Items, now)

	dash := &Dashboard{
		User:               active.Session.User,
		Upcoming:           upcoming,
		PendingEvaluations: len(pending),
		UpcomingSlots:      CountUpcomingSlots(availability.Items, now),
		Stale:              fetchErr != nil || lessons.Stale() || availability.Stale(),
	}
	if len(upcoming) > 0 {
		next := upcoming[0]
		dash.NextLesson = &next
	}

	dash.Services, dash.ServicesErr = s.backend.EnrolledServices(ctx, active.Session.User.UserID)
	if dash.ServicesErr != nil {
		s.logger.Warn("Failed to load enrolled services",
			zap.String("user_id", active.Session.User.UserID),
			zap.Error(dash.ServicesErr),
		)
	}

	return dash, nil
}

// Services услуги студента
func (s *DashboardService) Services(ctx context.Context, telegramID int64) ([]model.EnrolledService, error) {
	active, err := s.sessions.Require(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return s.backend.EnrolledServices(ctx, active.Session.User.UserID)
}

// Lessons предстоящие и прошедшие уроки для /lessons
func (s *DashboardService) Lessons(ctx context.Context, telegramID int64) (upcoming, past []model.Lesson, err error) {
	cache, err := s.sessions.Cache(ctx, telegramID)
	if err != nil {
		return nil, nil, err
	}
	if err := cache.FetchLessons(ctx, false); err != nil && !cache.Lessons().Loaded {
		return nil, nil, err
	}

	now := cache.Now()
	items := cache.Lessons().Items
	upcoming = UpcomingLessons(items, now)

	pending, completed := SplitLessons(items, now)
	past = append(pending, completed...)
	past = slices.DeleteFunc(past, func(l model.Lesson) bool {
		start, ok := calendar.LessonStart(l, now.Location())
		return !ok || !start.Before(now)
	})
	slices.SortStableFunc(past, func(a, b model.Lesson) int {
		sa, _ := calendar.LessonStart(a, now.Location())
		sb, _ := calendar.LessonStart(b, now.Location())
		return sb.Compare(sa)
	})
	return upcoming, past, nil
}
