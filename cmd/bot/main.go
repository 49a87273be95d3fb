package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/app"
	"github.com/Freeeeeet/kreno_bot/internal/config"
	"github.com/Freeeeeet/kreno_bot/internal/controller"
	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/repository"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kreno bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_url", cfg.API.URL),
		zap.String("timezone", cfg.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		_ = migrator.Close()
		return err
	}
	_ = migrator.Close()

	// Репозитории
	sessionRepo := repository.NewSessionRepository(pool)
	evaluationRepo := repository.NewEvaluationRepository(pool)

	// Kreno API
	backend := kreno.New(kreno.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Retries: cfg.API.Retries,
	}, logger.Named("kreno"))

	// Сервисы
	loc := cfg.Location()
	sessions := service.NewSessionService(sessionRepo, backend, loc, logger)
	services := controller.Services{
		Sessions:    sessions,
		Calendar:    service.NewCalendarService(sessions, cfg.GridConfig(), logger),
		Evaluations: service.NewEvaluationService(sessions, evaluationRepo, backend, cfg.EvaluationEditWindow, logger),
		Theory:      service.NewTheoryService(sessions, backend, logger),
		Dashboard:   service.NewDashboardService(sessions, backend, logger),
	}

	if _, err := sessions.Restore(ctx); err != nil {
		logger.Warn("Failed to restore sessions", zap.Error(err))
	}

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(botInstance, services, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu was not updated", zap.Error(err))
	}

	// Блокировка фоновых задач
	var locker app.Locker = app.LocalLock{}
	if cfg.Scheduler.RedisAddr != "" {
		redisLock, err := app.NewRedisLock(ctx, cfg.Scheduler.RedisAddr)
		if err != nil {
			return err
		}
		defer func() { _ = redisLock.Close() }()
		locker = redisLock
	}

	scheduler := app.NewScheduler(app.SchedulerConfig{
		RefreshSchedule:  cfg.Scheduler.RefreshSchedule,
		ReminderSchedule: cfg.Scheduler.ReminderSchedule,
		Location:         loc,
	}, sessions, services.Evaluations, botController, locker, logger.Named("scheduler"))
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	httpServer := app.NewHTTPServer(
		cfg.HTTP.Addr,
		app.NewRouter(app.NewHealthChecker(pool, func() int { return len(sessions.Active()) })),
		logger,
	)
	httpServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	botController.Start(ctx)
	return nil
}
