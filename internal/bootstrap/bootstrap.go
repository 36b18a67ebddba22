// internal/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pantry-be/internal/adapters/capture"
	"github.com/ammerola/pantry-be/internal/adapters/classifier"
	"github.com/ammerola/pantry-be/internal/adapters/db"
	"github.com/ammerola/pantry-be/internal/adapters/memory"
	redis_a "github.com/ammerola/pantry-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pantry-be/internal/adapters/sqlite"
	"github.com/ammerola/pantry-be/internal/adapters/storage"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
)

// Backends holds the storage connections shared by every binary.
type Backends struct {
	Items    ports.ItemStore
	Database ports.Database
	Users    ports.UserDirectory
	Sessions ports.SessionStore
	Redis    *redis.Client

	closers []func()
}

// Close releases every connection in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open connects the item store selected by cfg.Store.Driver, the user
// directory and the session store. m may be nil.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.Redis.Enabled {
		client, err := NewRedisClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.closers = append(b.closers, func() { client.Close() })
	}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.NewItemStore()
		b.Items, b.Database = store, store
		b.Users = memory.NewUserDirectory()

	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		b.closers = append(b.closers, func() { store.Close() })
		b.Items, b.Database = store, store
		b.Users = memory.NewUserDirectory()

	case config.StorePostgres:
		database, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, database.Close)
		b.Items = db.NewItemStore(database, logger)
		b.Database = database
		b.Users = db.NewUserDirectory(database, logger)

	default:
		b.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if m != nil {
		b.Items = metrics.InstrumentStore(b.Items, cfg.Store.Driver, m)
	}

	if cfg.Auth.SessionStore == "redis" && b.Redis != nil {
		b.Sessions = redis_a.NewSessionStore(b.Redis, logger)
	} else {
		if cfg.Auth.SessionStore == "redis" {
			logger.Warn("redis session store requested but redis is disabled, using memory")
		}
		b.Sessions = memory.NewSessionStore()
	}

	logger.Info("backends ready",
		slog.String("store", cfg.Store.Driver),
		slog.Bool("redis", b.Redis != nil))

	return b, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
			DatabaseURL: dbConfig.URL(),
			SourcePath:  cfg.Database.MigrationPath,
		}, logger, 3); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	database, err := db.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// AsynqRedisOpt returns the connection options for the task queue.
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// NewClassifier builds the Gemini classifier, cached in Redis when a client
// is given. It returns nil, nil when no API key is configured.
func NewClassifier(ctx context.Context, cfg *config.Config, redisClient *redis.Client, m *metrics.Metrics, logger *slog.Logger) (ports.Classifier, error) {
	if !cfg.ClassifierEnabled() {
		logger.Info("classifier disabled, no API key configured")
		return nil, nil
	}

	genai, err := classifier.NewGenAIClassifier(ctx, classifier.Config{
		APIKey:  cfg.Classifier.APIKey,
		Model:   cfg.Classifier.Model,
		BaseURL: cfg.Classifier.BaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	var c ports.Classifier = genai
	if m != nil {
		c = metrics.InstrumentClassifier(c, m)
	}
	if redisClient != nil && cfg.Classifier.CacheTTL > 0 {
		cache := redis_a.NewLabelCache(redisClient, cfg.Redis.TTL, logger)
		c = classifier.NewCachingClassifier(c, cache, cfg.Classifier.CacheTTL, logger)
	}
	return c, nil
}

// NewCapturer returns the configured snapshot source, or nil.
func NewCapturer(cfg *config.Config, logger *slog.Logger) ports.Capturer {
	switch {
	case cfg.Capture.URL != "":
		return capture.NewHTTPCapturer(cfg.Capture.URL, &http.Client{Timeout: cfg.Classifier.Timeout}, logger)
	case cfg.Capture.FilePath != "":
		return capture.NewFileCapturer(cfg.Capture.FilePath, logger)
	default:
		return nil
	}
}

// NewArchive returns the export archive backend, or nil when archiving is off.
func NewArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ObjectStorage, error) {
	switch cfg.Export.Archive {
	case config.ArchiveLocal:
		return storage.NewLocalStorage(cfg.Export.LocalDir, logger), nil
	case config.ArchiveS3:
		s3, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		return s3, nil
	default:
		return nil, nil
	}
}
