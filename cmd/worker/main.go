// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/bootstrap"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/logger"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
	"github.com/ammerola/pantry-be/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json").Logger

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).Logger
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()
	m := metrics.New()

	backends, err := bootstrap.Open(ctx, cfg, m, slogger)
	if err != nil {
		slogger.Error("failed to initialize backends", "err", err)
		os.Exit(1)
	}
	defer backends.Close()

	inventory := services.NewInventoryService(backends.Items, slogger)

	var classification *workers.ClassificationProcessor
	c, err := bootstrap.NewClassifier(ctx, cfg, backends.Redis, m, slogger)
	if err != nil {
		slogger.Error("failed to initialize classifier", "err", err)
		os.Exit(1)
	}
	if c != nil {
		classification = workers.NewClassificationProcessor(
			services.NewClassificationService(c, inventory, nil, slogger), slogger)
	}

	var cleanup *workers.CleanupProcessor
	archive, err := bootstrap.NewArchive(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize export archive", "err", err)
		os.Exit(1)
	}
	if archive != nil {
		exports := services.NewExportService(inventory, export.NewExporter(), archive, services.ExportConfig{
			Prefix:     cfg.Export.Prefix,
			PresignTTL: cfg.Export.PresignTTL,
		}, slogger)
		cleanup = workers.NewCleanupProcessor(exports, cfg.Export.Retention, slogger)
	}

	redisOpt := bootstrap.AsynqRedisOpt(cfg)
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := workers.NewServeMux(
		classification,
		workers.NewImportProcessor(inventory, slogger),
		cleanup,
		workers.Observe(slogger, m),
	)

	var scheduler *asynq.Scheduler
	if cleanup != nil && cfg.Export.CleanupSchedule != "" {
		scheduler, err = newScheduler(redisOpt, cfg, slogger)
		if err != nil {
			slogger.Error("failed to register cleanup schedule", "err", err)
			os.Exit(1)
		}
	}

	var metricsServer *http.Server
	if cfg.Server.EnableMetrics {
		metricsServer = serveMetrics(cfg, m, slogger)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", "err", err)
			shutdown <- syscall.SIGTERM
		}
	}()

	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			slogger.Error("failed to start scheduler", "err", err)
			os.Exit(1)
		}
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.Bool("classification", classification != nil),
		slog.Bool("cleanup", cleanup != nil))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to shutdown metrics server", "err", err)
		}
	}

	slogger.Info("worker shutdown complete")
}

// newScheduler enqueues the export cleanup task on the configured cron spec.
func newScheduler(redisOpt asynq.RedisClientOpt, cfg *config.Config, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(logger),
		Location: time.UTC,
	})

	task, err := workers.NewCleanupTask(workers.CleanupPayload{})
	if err != nil {
		return nil, err
	}

	entryID, err := scheduler.Register(cfg.Export.CleanupSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.Export.CleanupSchedule, err)
	}

	logger.Info("export cleanup scheduled",
		slog.String("entry_id", entryID),
		slog.String("schedule", cfg.Export.CleanupSchedule),
		slog.Duration("retention", cfg.Export.Retention))

	return scheduler, nil
}

func serveMetrics(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving worker metrics", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return server
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		"err", err)
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", "err", err)
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
