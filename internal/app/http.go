package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger проверка зависимости (pgxpool.Pool)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse ответ /healthz
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Sessions  int               `json:"sessions"`
	Checks    map[string]string `json:"checks"`
}

type HealthChecker struct {
	db        Pinger
	sessions  func() int
	startTime time.Time
}

func NewHealthChecker(db Pinger, sessions func() int) *HealthChecker {
	return &HealthChecker{
		db:        db,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    map[string]string{"database": "healthy"},
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions()
	}

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["database"] = "unhealthy: " + err.Error()
		render.Status(r, http.StatusServiceUnavailable)
	}

	render.JSON(w, r, resp)
}

// NewRouter /healthz и /metrics
func NewRouter(health http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Method(http.MethodGet, "/healthz", health)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return router
}

// HTTPServer служебный сервер
type HTTPServer struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewHTTPServer(addr string, handler http.Handler, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start запускает сервер в фоне; ошибка запуска логируется
func (s *HTTPServer) Start() {
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
