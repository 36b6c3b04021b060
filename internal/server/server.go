package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todo-cli/internal/config"
	"todo-cli/internal/handlers"
	"todo-cli/internal/middleware"
	"todo-cli/internal/monitoring"
	"todo-cli/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the task service over a local JSON API.
type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	router  *gin.Engine
	metrics *monitoring.Metrics
}

// New builds the router. health may be nil, in which case /healthz always
// reports healthy.
func New(cfg *config.Config, taskService services.TaskService, health *monitoring.HealthChecker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if health == nil {
		health = monitoring.NewHealthChecker(0)
	}
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.RecoveryWithLog(log))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(metrics.Middleware())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	r.GET("/healthz", health.Handler())
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	handlers.NewTaskHandler(taskService, log).RegisterRoutes(api)

	return &Server{cfg: cfg, log: log, router: r, metrics: metrics}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("server_exited")
	return nil
}
