package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики бота
var (
	// Запросы к Kreno API
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_backend_requests_total",
			Help: "Количество запросов к бэкенду",
		},
		[]string{"endpoint", "method", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kreno_bot_backend_request_duration_seconds",
			Help:    "Время выполнения запросов к бэкенду",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// Обработчики Telegram
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_updates_total",
			Help: "Количество обработанных обновлений Telegram",
		},
		[]string{"handler", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kreno_bot_active_sessions",
			Help: "Количество активных сессий",
		},
	)

	// Слоты доступности
	SlotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_slot_writes_total",
			Help: "Добавление и удаление слотов доступности",
		},
		[]string{"operation", "status"},
	)

	CacheFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_cache_fetches_total",
			Help: "Загрузки доменов кеша",
		},
		[]string{"domain", "status"},
	)

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_evaluations_total",
			Help: "Отправленные оценки уроков",
		},
		[]string{"operation", "status"},
	)

	TheoryTestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_theory_tests_total",
			Help: "Завершённые теоретические тесты",
		},
		[]string{"category"},
	)

	SchedulerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_scheduler_runs_total",
			Help: "Запуски фоновых задач",
		},
		[]string{"job", "status"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kreno_bot_errors_total",
			Help: "Количество ошибок",
		},
		[]string{"component", "error_type"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordBackendRequest записывает метрику запроса к бэкенду
func RecordBackendRequest(endpoint, method, status string, took time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	BackendRequestDuration.WithLabelValues(endpoint, method).Observe(took.Seconds())
}

// RecordUpdate записывает метрику обработки обновления
func RecordUpdate(handler string, err error) {
	UpdatesTotal.WithLabelValues(handler, statusLabel(err)).Inc()
}

// RecordSlotWrite записывает метрику изменения доступности
func RecordSlotWrite(operation string, err error) {
	SlotWritesTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordCacheFetch записывает метрику загрузки домена
func RecordCacheFetch(domain string, err error) {
	CacheFetchesTotal.WithLabelValues(domain, statusLabel(err)).Inc()
}

// RecordEvaluation записывает метрику отправки оценки
func RecordEvaluation(operation string, err error) {
	EvaluationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordTheoryTest записывает завершённый тест
func RecordTheoryTest(category string) {
	TheoryTestsTotal.WithLabelValues(category).Inc()
}

// RecordSchedulerRun записывает запуск фоновой задачи
func RecordSchedulerRun(job string, err error) {
	SchedulerRunsTotal.WithLabelValues(job, statusLabel(err)).Inc()
}

// RecordError записывает метрику ошибки
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// SetActiveSessions устанавливает количество активных сессий
func SetActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}
