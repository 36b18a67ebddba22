// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/adapters/export"
	"github.com/ammerola/pantry-be/internal/bootstrap"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/internal/handlers"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/logger"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json").Logger

	slogger.Info("starting pantry API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.cleanup()

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handlers.NewRouter(deps.router),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", "err", err)
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", "err", err)
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	backends       *bootstrap.Backends
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	router         handlers.Dependencies
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.backends != nil {
		d.backends.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}
	m := metrics.New()

	backends, err := bootstrap.Open(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}
	deps.backends = backends

	inventory := services.NewInventoryService(backends.Items, logger)
	auth := services.NewAuthService(backends.Users, backends.Sessions, services.AuthConfig{
		SessionTTL: cfg.Auth.SessionTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)

	archive, err := bootstrap.NewArchive(ctx, cfg, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	exports := services.NewExportService(inventory, export.NewExporter(), archive, services.ExportConfig{
		Prefix:     cfg.Export.Prefix,
		PresignTTL: cfg.Export.PresignTTL,
	}, logger)

	deps.router = handlers.Dependencies{
		Auth:      auth,
		Inventory: inventory,
		Exports:   exports,
		Store:     backends.Database,
		Redis:     backends.Redis,
		Metrics:   m,
		Config:    cfg,
		Logger:    logger,
	}

	c, err := bootstrap.NewClassifier(ctx, cfg, backends.Redis, m, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	if c != nil {
		deps.router.Classifier = services.NewClassificationService(c, inventory, bootstrap.NewCapturer(cfg, logger), logger)
	}

	// Background tasks share the Redis deployment; without it imports and
	// classification attach run inside the request.
	if cfg.Redis.Enabled {
		logger.Info("initializing Asynq client")
		redisOpt := bootstrap.AsynqRedisOpt(cfg)
		deps.asynqClient = asynq.NewClient(redisOpt)
		deps.asynqInspector = asynq.NewInspector(redisOpt)
		deps.router.Enqueuer = deps.asynqClient
		deps.router.Inspector = deps.asynqInspector
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}
