package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
)

type Config struct {
	TelegramToken  string `env:"TELEGRAM_TOKEN" env-required:"true"`
	DBDSN          string `env:"DB_DSN" env-required:"true"`
	Environment    string `env:"ENV" env-default:"development"`
	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"migrations"`
	Timezone       string `env:"TIMEZONE" env-default:"UTC"`

	API       API
	Grid      Grid
	Scheduler Scheduler
	HTTP      HTTP

	EvaluationEditWindow time.Duration `env:"EVALUATION_EDIT_WINDOW" env-default:"72h"`
}

// API параметры Kreno API
type API struct {
	URL     string        `env:"KRENO_API_URL" env-default:"http://192.168.1.51/kreno-api"`
	Timeout time.Duration `env:"API_TIMEOUT" env-default:"10s"`
	Retries uint64        `env:"API_RETRIES" env-default:"2"`
}

// Grid видимый диапазон сетки дня
type Grid struct {
	Start       string `env:"GRID_START" env-default:"05:00"`
	End         string `env:"GRID_END" env-default:"21:30"`
	StepMinutes int    `env:"GRID_STEP_MINUTES" env-default:"30"`
}

// Scheduler фоновые задачи
type Scheduler struct {
	RefreshSchedule  string `env:"REFRESH_SCHEDULE" env-default:"@every 30m"`
	ReminderSchedule string `env:"REMINDER_SCHEDULE" env-default:"0 18 * * *"`
	// RedisAddr пустой адрес отключает распределенную блокировку
	RedisAddr string `env:"REDIS_ADDR"`
}

// HTTP сервер health/metrics
type HTTP struct {
	Addr string `env:"HTTP_ADDR" env-default:":8081"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return &cfg, nil
}

// Validate проверяет значения, которые cleanenv не умеет проверять
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if err := c.GridConfig().Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if c.EvaluationEditWindow <= 0 {
		return fmt.Errorf("EVALUATION_EDIT_WINDOW must be positive")
	}
	return nil
}

// Location часовой пояс расписания
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GridConfig конфигурация сетки дня
func (c *Config) GridConfig() calendar.GridConfig {
	return calendar.GridConfig{Start: c.Grid.Start, End: c.Grid.End, Step: c.Grid.StepMinutes}
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
