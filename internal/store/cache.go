package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// Названия доменов
const (
	DomainLessons      = "lessons"
	DomainAvailability = "availability"
	DomainSkills       = "skills"
	DomainSubSkills    = "sub_skills"
)

// Операции над слотами в ожидании ответа сервера
const (
	PendingAdd    = "add"
	PendingRemove = "remove"
)

// Backend источник данных кеша
type Backend interface {
	Lessons(ctx context.Context, userID string) ([]model.Lesson, error)
	Skills(ctx context.Context) ([]model.Skill, error)
	SubSkills(ctx context.Context) ([]model.SubSkill, error)
	Availability(ctx context.Context, userID string, rng kreno.AvailabilityRange) ([]model.AvailabilitySlot, error)
	AddAvailability(ctx context.Context, key model.SlotKey) (model.AvailabilitySlot, error)
	RemoveAvailability(ctx context.Context, key model.SlotKey) error
}

// Options параметры кеша
type Options struct {
	// Now источник текущего времени
	Now func() time.Time
	// Location часовой пояс дат уроков и слотов
	Location *time.Location
	Logger   *zap.Logger
}

// Cache уроки и доступность одного залогиненного студента
type Cache struct {
	user    model.User
	backend Backend
	now     func() time.Time
	loc     *time.Location
	logger  *zap.Logger

	group singleflight.Group

	lessons      *domain[model.Lesson]
	availability *domain[model.AvailabilitySlot]
	skills       *domain[model.Skill]
	subSkills    *domain[model.SubSkill]

	pendingMu sync.Mutex
	pending   map[model.SlotKey]string
}

// NewCache создает кеш для сессии пользователя
func NewCache(user model.User, backend Backend, opts Options) *Cache {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		user:         user,
		backend:      backend,
		now:          now,
		loc:          loc,
		logger:       logger.With(zap.String("user_id", user.UserID)),
		lessons:      newDomain[model.Lesson](),
		availability: newDomain[model.AvailabilitySlot](),
		skills:       newDomain[model.Skill](),
		subSkills:    newDomain[model.SubSkill](),
		pending:      make(map[model.SlotKey]string),
	}
}

// User возвращает владельца кеша
func (c *Cache) User() model.User {
	return c.user
}

// Location часовой пояс кеша
func (c *Cache) Location() *time.Location {
	return c.loc
}

// Now текущее время в часовом поясе кеша
func (c *Cache) Now() time.Time {
	return c.now().In(c.loc)
}

// Lessons снимок уроков
func (c *Cache) Lessons() Snapshot[model.Lesson] {
	return c.lessons.snapshot()
}

// Availability снимок слотов доступности
func (c *Cache) Availability() Snapshot[model.AvailabilitySlot] {
	return c.availability.snapshot()
}

// Skills снимок каталога навыков
func (c *Cache) Skills() Snapshot[model.Skill] {
	return c.skills.snapshot()
}

// SubSkills снимок подзадач навыков
func (c *Cache) SubSkills() Snapshot[model.SubSkill] {
	return c.subSkills.snapshot()
}

// fetchDomain загружает домен; параллельные вызовы для одного
// (домен, пользователь) объединяются в один запрос.
// Общий запрос не зависит от отмены контекста того, кто его начал:
// каждый вызывающий перестает ждать только по своему ctx.
func fetchDomain[T any](ctx context.Context, c *Cache, d *domain[T], name string, force bool, load func(context.Context) ([]T, error)) error {
	if !force && d.ready() {
		return nil
	}

	key := name + ":" + c.user.UserID
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		d.begin()
		items, err := load(loadCtx)
		d.finish(items, err, c.now())
		metrics.RecordCacheFetch(name, err)
		if err != nil {
			c.logger.Warn("Failed to fetch domain", zap.String("domain", name), zap.Error(err))
		}
		return nil, err
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Fetch joined in-flight request", zap.String("domain", name))
		}
		return res.Err
	}
}

// FetchLessons загружает уроки
func (c *Cache) FetchLessons(ctx context.Context, force bool) error {
	return fetchDomain(ctx, c, c.lessons, DomainLessons, force, func(ctx context.Context) ([]model.Lesson, error) {
		return c.backend.Lessons(ctx, c.user.UserID)
	})
}

// FetchAvailability загружает слоты текущего пользователя
func (c *Cache) FetchAvailability(ctx context.Context, force bool) error {
	return fetchDomain(ctx, c, c.availability, DomainAvailability, force, func(ctx context.Context) ([]model.AvailabilitySlot, error) {
		slots, err := c.backend.Availability(ctx, c.user.UserID, kreno.AvailabilityRange{})
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(slots, func(s model.AvailabilitySlot) bool {
			return s.UserID != c.user.UserID
		}), nil
	})
}

// FetchSkills загружает каталог навыков и подзадач параллельно
func (c *Cache) FetchSkills(ctx context.Context, force bool) error {
	var g errgroup.Group
	g.Go(func() error {
		return fetchDomain(ctx, c, c.skills, DomainSkills, force, c.backend.Skills)
	})
	g.Go(func() error {
		return fetchDomain(ctx, c, c.subSkills, DomainSubSkills, force, c.backend.SubSkills)
	})
	return g.Wait()
}

// Fetch загружает уроки и доступность параллельно.
// Ошибка одного домена не отменяет загрузку другого.
func (c *Cache) Fetch(ctx context.Context, force bool) error {
	var g errgroup.Group
	var lessonsErr, availabilityErr error

	g.Go(func() error {
		lessonsErr = c.FetchLessons(ctx, force)
		return nil
	})
	g.Go(func() error {
		availabilityErr = c.FetchAvailability(ctx, force)
		return nil
	})
	_ = g.Wait()

	return errors.Join(lessonsErr, availabilityErr)
}

// ensureLoaded загружает домены, которые еще ни разу не загружались
func (c *Cache) ensureLoaded(ctx context.Context) error {
	if c.lessons.isLoaded() && c.availability.isLoaded() {
		return nil
	}
	return c.Fetch(ctx, false)
}

// Pending возвращает операцию над слотом, ожидающую ответа сервера
func (c *Cache) Pending(key model.SlotKey) (string, bool) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	op, ok := c.pending[key]
	return op, ok
}

// claim помечает слот как ожидающий; false если по нему уже идет запрос
func (c *Cache) claim(key model.SlotKey, op string) bool {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if _, busy := c.pending[key]; busy {
		return false
	}
	c.pending[key] = op
	return true
}

func (c *Cache) release(key model.SlotKey) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	delete(c.pending, key)
}

// ValidateSlot проверяет слот локально, без обращения к серверу
func (c *Cache) ValidateSlot(date, start string) (model.SlotKey, error) {
	minutes, err := calendar.ParseClock(start)
	if err != nil {
		return model.SlotKey{}, apperr.ErrInvalidTime.WithError(err)
	}
	day, err := calendar.ParseDate(date, c.loc)
	if err != nil {
		return model.SlotKey{}, apperr.ErrInvalidDate.WithError(err)
	}

	if calendar.At(day, minutes).Before(c.now()) {
		return model.SlotKey{}, apperr.ErrSlotInPast
	}

	key := model.SlotKey{UserID: c.user.UserID, Date: date, StartTime: start}

	interval, _ := calendar.SlotInterval(start)
	if lesson := calendar.FindOverlappingLesson(c.lessons.snapshot().Items, date, interval); lesson != nil {
		return key, apperr.ErrSlotConflict.WithMessage("this time overlaps with the lesson %q (%s-%s)",
			lesson.Title, lesson.StartTime, lesson.End())
	}

	if _, exists := c.availability.find(func(s model.AvailabilitySlot) bool { return s.Key() == key }); exists {
		return key, apperr.ErrSlotExists
	}

	return key, nil
}

// AddAvailabilitySlot отмечает получасовой слот как свободный.
// Локальная коллекция меняется только после подтверждения сервера.
func (c *Cache) AddAvailabilitySlot(ctx context.Context, date, start string) (model.AvailabilitySlot, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return model.AvailabilitySlot{}, fmt.Errorf("load calendar: %w", err)
	}

	key, err := c.ValidateSlot(date, start)
	if err != nil {
		return model.AvailabilitySlot{}, err
	}

	if !c.claim(key, PendingAdd) {
		return model.AvailabilitySlot{}, apperr.ErrSlotPending
	}
	defer c.release(key)

	slot, err := c.backend.AddAvailability(ctx, key)
	metrics.RecordSlotWrite(PendingAdd, err)
	if err != nil {
		c.logger.Warn("Failed to add availability slot", zap.String("slot", key.String()), zap.Error(err))
		return model.AvailabilitySlot{}, err
	}

	c.availability.update(func(items []model.AvailabilitySlot) []model.AvailabilitySlot {
		if slices.ContainsFunc(items, func(s model.AvailabilitySlot) bool { return s.Key() == slot.Key() }) {
			return items
		}
		return append(slices.Clone(items), slot)
	})

	c.logger.Info("Availability slot added", zap.String("slot", slot.Key().String()))
	return slot, nil
}

// RemoveAvailabilitySlot снимает отметку доступности.
// Если коллекция загружена и слота в ней нет - ничего не делает.
func (c *Cache) RemoveAvailabilitySlot(ctx context.Context, key model.SlotKey) error {
	if c.availability.isLoaded() {
		if _, exists := c.availability.find(func(s model.AvailabilitySlot) bool { return s.Key() == key }); !exists {
			return nil
		}
	}

	if !c.claim(key, PendingRemove) {
		return apperr.ErrSlotPending
	}
	defer c.release(key)

	err := c.backend.RemoveAvailability(ctx, key)
	metrics.RecordSlotWrite(PendingRemove, err)
	if err != nil {
		c.logger.Warn("Failed to remove availability slot", zap.String("slot", key.String()), zap.Error(err))
		return err
	}

	c.availability.update(func(items []model.AvailabilitySlot) []model.AvailabilitySlot {
		return slices.DeleteFunc(slices.Clone(items), func(s model.AvailabilitySlot) bool { return s.Key() == key })
	})

	c.logger.Info("Availability slot removed", zap.String("slot", key.String()))
	return nil
}

// MarkEvaluationGiven отмечает урок оцененным после подтверждения сервера
func (c *Cache) MarkEvaluationGiven(lessonID string) bool {
	var found bool
	c.lessons.update(func(items []model.Lesson) []model.Lesson {
		idx := slices.IndexFunc(items, func(l model.Lesson) bool { return l.ID == lessonID })
		if idx < 0 {
			return items
		}
		found = true
		updated := slices.Clone(items)
		updated[idx].EvaluationGiven = true
		return updated
	})
	return found
}

// Lesson ищет урок по ID
func (c *Cache) Lesson(lessonID string) (model.Lesson, bool) {
	return c.lessons.find(func(l model.Lesson) bool { return l.ID == lessonID })
}

// DayGrid строит сетку дня из текущих снимков; day должен быть в зоне кеша
func (c *Cache) DayGrid(cfg calendar.GridConfig, day time.Time) ([]calendar.Cell, error) {
	return calendar.BuildDayGrid(cfg, day, c.lessons.snapshot().Items, c.availability.snapshot().Items, c.user.UserID, c.now())
}
