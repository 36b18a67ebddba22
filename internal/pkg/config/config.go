// internal/pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Archive backends
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Asynq      AsynqConfig
	AWS        AWSConfig
	Classifier ClassifierConfig
	Capture    CaptureConfig
	Auth       AuthConfig
	Export     ExportConfig
	Security   SecurityConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              string `required:"true"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	MaxHeaderBytes    int
	MaxUploadBytes    int64
	GracefulTimeout   time.Duration
	EnableMetrics     bool
	EnableHealthCheck bool
	TLSEnabled        bool
	TLSCertFile       string
	TLSKeyFile        string
}

// StoreConfig selects the item store backend
type StoreConfig struct {
	Driver     string `required:"true"` // memory, sqlite, postgres
	SQLitePath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	MigrationPath      string // empty uses the embedded migrations
	AutoMigrate        bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled         bool
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	TTL             time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	SecretID        string // Secrets Manager secret holding GENAI_API_KEY / DB_PASSWORD
}

// ClassifierConfig configures the image classifier
type ClassifierConfig struct {
	APIKey   string
	Model    string
	BaseURL  string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// CaptureConfig points at a camera snapshot source. Both empty disables capture.
type CaptureConfig struct {
	FilePath string
	URL      string
}

// AuthConfig configures sign in and sessions
type AuthConfig struct {
	SessionTTL   time.Duration
	BcryptCost   int
	SessionStore string // memory, redis
}

// ExportConfig configures export archiving
type ExportConfig struct {
	Archive         string // none, local, s3
	LocalDir        string
	Prefix          string
	PresignTTL      time.Duration
	Retention       time.Duration
	CleanupSchedule string
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := build(newViper(), env)

	if err := resolveSecrets(context.Background(), cfg, logger); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func build(v *viper.Viper, env string) *Config {
	e := envReader{v: v}

	redisHost := e.str("REDIS_HOST", "localhost")
	redisPort := e.str("REDIS_PORT", "6379")

	return &Config{
		App: AppConfig{
			Name:        e.str("APP_NAME", "pantry-api"),
			Environment: env,
			Version:     e.str("APP_VERSION", "dev"),
			LogLevel:    e.str("LOG_LEVEL", "info"),
			LogFormat:   e.str("LOG_FORMAT", "json"),
			Debug:       e.boolean("APP_DEBUG", env == "development"),
		},
		Server: ServerConfig{
			Host:              e.str("SERVER_HOST", "0.0.0.0"),
			Port:              e.str("SERVER_PORT", "8080"),
			ReadTimeout:       e.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      e.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       e.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:    e.duration("SERVER_REQUEST_TIMEOUT", 25*time.Second),
			MaxHeaderBytes:    e.integer("SERVER_MAX_HEADER_BYTES", 1<<20),
			MaxUploadBytes:    int64(e.integer("SERVER_MAX_UPLOAD_BYTES", 10<<20)),
			GracefulTimeout:   e.duration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			EnableMetrics:     e.boolean("ENABLE_METRICS", true),
			EnableHealthCheck: e.boolean("ENABLE_HEALTH_CHECK", true),
			TLSEnabled:        e.boolean("TLS_ENABLED", false),
			TLSCertFile:       e.str("TLS_CERT_FILE", ""),
			TLSKeyFile:        e.str("TLS_KEY_FILE", ""),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(e.str("STORE_DRIVER", StorePostgres)),
			SQLitePath: e.str("SQLITE_PATH", "pantry.db"),
		},
		Database: DatabaseConfig{
			Host:               e.str("DB_HOST", "localhost"),
			Port:               e.str("DB_PORT", "5432"),
			User:               e.str("DB_USER", "pantry"),
			Password:           e.str("DB_PASSWORD", "pantry_dev"),
			Name:               e.str("DB_NAME", "pantry"),
			SSLMode:            e.str("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(e.integer("DB_MAX_CONNECTIONS", 10)),
			MinConnections:     int32(e.integer("DB_MIN_CONNECTIONS", 2)),
			MaxConnLifetime:    e.duration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    e.duration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  e.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     e.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: e.boolean("DB_QUERY_LOGGING", false),
			MigrationPath:      e.str("DB_MIGRATION_PATH", ""),
			AutoMigrate:        e.boolean("DB_AUTO_MIGRATE", env != "production"),
		},
		Redis: RedisConfig{
			Enabled:         e.boolean("REDIS_ENABLED", true),
			Host:            redisHost,
			Port:            redisPort,
			Password:        e.str("REDIS_PASSWORD", ""),
			DB:              e.integer("REDIS_DB", 0),
			MaxRetries:      e.integer("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: e.duration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: e.duration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			DialTimeout:     e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:        e.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns:    e.integer("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:     e.duration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     e.duration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			TTL:             e.duration("REDIS_TTL", time.Hour),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:   e.str("REDIS_PASSWORD", ""),
			RedisDB:         e.integer("ASYNQ_REDIS_DB", 1),
			Concurrency:     e.integer("ASYNQ_CONCURRENCY", 5),
			Queues:          parseQueues(e.str("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  e.boolean("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        e.integer("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout: e.duration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          e.str("AWS_REGION", "us-east-1"),
			AccessKeyID:     e.str("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: e.str("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        e.str("AWS_S3_BUCKET", "pantry-exports"),
			S3Endpoint:      e.str("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    e.boolean("AWS_S3_PATH_STYLE", env == "development"),
			SecretID:        e.str("AWS_SECRET_ID", ""),
		},
		Classifier: ClassifierConfig{
			APIKey:   e.str("GENAI_API_KEY", ""),
			Model:    e.str("GENAI_MODEL", "gemini-2.5-flash"),
			BaseURL:  e.str("GENAI_BASE_URL", ""),
			CacheTTL: e.duration("CLASSIFIER_CACHE_TTL", 24*time.Hour),
			Timeout:  e.duration("CLASSIFIER_TIMEOUT", 20*time.Second),
		},
		Capture: CaptureConfig{
			FilePath: e.str("CAPTURE_FILE", ""),
			URL:      e.str("CAPTURE_URL", ""),
		},
		Auth: AuthConfig{
			SessionTTL:   e.duration("SESSION_TTL", 24*time.Hour),
			BcryptCost:   e.integer("BCRYPT_COST", 10),
			SessionStore: strings.ToLower(e.str("SESSION_STORE", "redis")),
		},
		Export: ExportConfig{
			Archive:         strings.ToLower(e.str("EXPORT_ARCHIVE", ArchiveLocal)),
			LocalDir:        e.str("EXPORT_LOCAL_DIR", "exports"),
			Prefix:          e.str("EXPORT_PREFIX", "exports"),
			PresignTTL:      e.duration("EXPORT_PRESIGN_TTL", 15*time.Minute),
			Retention:       e.duration("EXPORT_RETENTION", 7*24*time.Hour),
			CleanupSchedule: e.str("EXPORT_CLEANUP_SCHEDULE", "@hourly"),
		},
		Security: SecurityConfig{
			RateLimitRequests: e.integer("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: e.duration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    e.slice("ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies:    e.slice("TRUSTED_PROXIES", []string{}),
			SecureHeaders:     e.boolean("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   e.str("REQUEST_ID_HEADER", "X-Request-ID"),
		},
	}
}

// Validate runs the base rules and, in production, the stricter set.
func (c *Config) Validate() error {
	rules := baseRules
	if c.IsProduction() {
		rules = append(slices.Clone(baseRules), productionRules...)
	}
	for _, check := range rules {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRedisAddress returns host:port for go-redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// ClassifierEnabled reports whether an API key is configured.
func (c *Config) ClassifierEnabled() bool {
	return c.Classifier.APIKey != ""
}

// Helper functions

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pantry-api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// envReader reads keys through viper, falling back to the default when a
// key is unset or does not parse.
type envReader struct {
	v *viper.Viper
}

func (e envReader) str(key, defaultValue string) string {
	if value := e.v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) boolean(key string, defaultValue bool) bool {
	if value := e.v.GetString(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func (e envReader) integer(key string, defaultValue int) int {
	if value := e.v.GetString(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if value := e.v.GetString(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func (e envReader) slice(key string, defaultValue []string) []string {
	value := e.v.GetString(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
