package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

const (
	jobRefresh   = "refresh_caches"
	jobReminders = "evaluation_reminders"

	jobTimeout     = 5 * time.Minute
	refreshWorkers = 4
)

// Notifier доставляет напоминания пользователю
type Notifier interface {
	NotifyPendingEvaluations(ctx context.Context, session model.Session, lessons []model.Lesson) error
}

type SchedulerConfig struct {
	RefreshSchedule  string
	ReminderSchedule string
	Location         *time.Location
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron        *cron.Cron
	cfg         SchedulerConfig
	sessions    *service.SessionService
	evaluations *service.EvaluationService
	notifier    Notifier
	locker      Locker
	logger      *zap.Logger
}

func NewScheduler(
	cfg SchedulerConfig,
	sessions *service.SessionService,
	evaluations *service.EvaluationService,
	notifier Notifier,
	locker Locker,
	logger *zap.Logger,
) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if locker == nil {
		locker = LocalLock{}
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		cfg:         cfg,
		sessions:    sessions,
		evaluations: evaluations,
		notifier:    notifier,
		locker:      locker,
		logger:      logger,
	}
}

// Start регистрирует задачи и запускает cron
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{jobRefresh, s.cfg.RefreshSchedule, s.RefreshCaches},
		{jobReminders, s.cfg.ReminderSchedule, s.SendReminders},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.logger.Info("Background job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, func() { s.runLocked(ctx, job.name, job.run) }); err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}

	s.logger.Info("Starting background scheduler",
		zap.String("refresh", s.cfg.RefreshSchedule),
		zap.String("reminders", s.cfg.ReminderSchedule),
	)
	s.cron.Start()
	return nil
}

// Stop ждет завершения запущенных задач
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runLocked(ctx context.Context, name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	acquired, err := s.locker.Lock(ctx, name, jobTimeout)
	if err != nil {
		s.logger.Error("Failed to acquire job lock", zap.String("job", name), zap.Error(err))
		metrics.RecordSchedulerRun(name, err)
		return
	}
	if !acquired {
		s.logger.Debug("Job is running on another replica", zap.String("job", name))
		return
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), name); err != nil {
			s.logger.Warn("Failed to release job lock", zap.String("job", name), zap.Error(err))
		}
	}()

	started := time.Now()
	err = run(ctx)
	metrics.RecordSchedulerRun(name, err)
	if err != nil {
		s.logger.Error("Background job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("Background job completed", zap.String("job", name), zap.Duration("took", time.Since(started)))
}

// RefreshCaches принудительно обновляет уроки и доступность всех активных сессий.
// Ошибка одной сессии не останавливает остальные.
func (s *Scheduler) RefreshCaches(ctx context.Context) error {
	active := s.sessions.Active()

	var g errgroup.Group
	g.SetLimit(refreshWorkers)

	for _, a := range active {
		g.Go(func() error {
			if err := a.Cache.Fetch(ctx, true); err != nil {
				s.logger.Warn("Failed to refresh session cache",
					zap.Int64("telegram_id", a.Session.TelegramID),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Debug("Session caches refreshed", zap.Int("sessions", len(active)))
	return nil
}

// SendReminders напоминает об уроках без оценки, о каждом уроке один раз
func (s *Scheduler) SendReminders(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	var failed int
	for _, a := range s.sessions.Active() {
		lessons, err := s.evaluations.ReminderCandidates(ctx, a)
		if err != nil {
			failed++
			s.logger.Warn("Failed to collect reminder candidates",
				zap.Int64("telegram_id", a.Session.TelegramID),
				zap.Error(err),
			)
			continue
		}
		if len(lessons) == 0 {
			continue
		}

		if err := s.notifier.NotifyPendingEvaluations(ctx, a.Session, lessons); err != nil {
			failed++
			s.logger.Warn("Failed to send evaluation reminder",
				zap.Int64("telegram_id", a.Session.TelegramID),
				zap.Error(err),
			)
			continue
		}

		// отметка только после доставки, иначе неудачное напоминание потеряется
		if err := s.evaluations.MarkReminded(ctx, a, lessons); err != nil {
			failed++
			s.logger.Warn("Failed to mark reminders as sent",
				zap.Int64("telegram_id", a.Session.TelegramID),
				zap.Error(err),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("reminders failed for %d sessions", failed)
	}
	return nil
}
