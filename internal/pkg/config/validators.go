// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// ErrMissingRequiredConfig is returned when a required setting is empty or
// still holds a placeholder.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

const placeholderPrefix = "MISSING_"

// rule checks one aspect of a loaded configuration.
type rule func(cfg *Config) error

func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, what)
}

// baseRules apply in every environment, in order.
var baseRules = []rule{
	requiredFields,
	storeRule,
	sessionStoreRule,
	exportArchiveRule,
	limitsRule,
	authRule,
}

// productionRules run after baseRules when APP_ENV=production.
var productionRules = []rule{
	noPlaceholders,
	productionBackends,
	productionHTTP,
}

func storeRule(cfg *Config) error {
	switch cfg.Store.Driver {
	case StoreMemory:
		return nil
	case StoreSQLite:
		if cfg.Store.SQLitePath == "" {
			return missing("SQLITE_PATH")
		}
		return nil
	case StorePostgres:
		db := cfg.Database
		if db.Host == "" || db.Name == "" {
			return missing("database host and name")
		}
		if db.MaxConnections < db.MinConnections {
			return errors.New("database max_connections must be >= min_connections")
		}
		return nil
	}
	return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func sessionStoreRule(cfg *Config) error {
	switch cfg.Auth.SessionStore {
	case "memory":
		return nil
	case "redis":
		if !cfg.Redis.Enabled {
			return errors.New("redis session store requires REDIS_ENABLED")
		}
		return nil
	}
	return fmt.Errorf("unknown session store %q", cfg.Auth.SessionStore)
}

func exportArchiveRule(cfg *Config) error {
	switch cfg.Export.Archive {
	case ArchiveNone:
		return nil
	case ArchiveLocal:
		if cfg.Export.LocalDir == "" {
			return missing("EXPORT_LOCAL_DIR")
		}
		return nil
	case ArchiveS3:
		if cfg.AWS.S3Bucket == "" {
			return missing("AWS_S3_BUCKET")
		}
		return nil
	}
	return fmt.Errorf("unknown export archive %q", cfg.Export.Archive)
}

func limitsRule(cfg *Config) error {
	if cfg.Redis.Enabled && cfg.Redis.PoolSize <= 0 {
		return errors.New("redis pool_size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return errors.New("rate_limit_requests must be positive")
	}
	return nil
}

func authRule(cfg *Config) error {
	switch cost := cfg.Auth.BcryptCost; {
	case cost < 10:
		return errors.New("bcrypt cost must be at least 10")
	case cost > 15:
		return errors.New("bcrypt cost should not exceed 15 for performance reasons")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if cfg.IsProduction() && slices.Contains(cfg.Security.AllowedOrigins, "*") {
		return errors.New("wildcard origin (*) not allowed in production")
	}
	return nil
}

func noPlaceholders(cfg *Config) error {
	if strings.HasPrefix(cfg.Database.Password, placeholderPrefix) {
		return missing("database password")
	}
	if strings.HasPrefix(cfg.Classifier.APIKey, placeholderPrefix) {
		return missing("GenAI API key")
	}
	return nil
}

func productionBackends(cfg *Config) error {
	switch {
	case cfg.Store.Driver == StorePostgres && cfg.Database.SSLMode == "disable":
		return errors.New("database SSL must be enabled in production")
	case cfg.Store.Driver == StoreMemory:
		return errors.New("memory store cannot be used in production")
	case cfg.Auth.SessionStore == "memory":
		return errors.New("memory session store cannot be used in production")
	}
	return nil
}

func productionHTTP(cfg *Config) error {
	if !cfg.Security.SecureHeaders {
		return errors.New("secure headers must be enabled in production")
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		return errors.New("allowed origins must be configured in production")
	}
	if cfg.Server.TLSEnabled && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
		return errors.New("TLS cert and key files must be provided when TLS is enabled")
	}
	return nil
}

// requiredFields walks cfg for fields tagged required:"true" and reports
// the first one left empty or holding a placeholder.
func requiredFields(cfg *Config) error {
	return walkRequired(reflect.ValueOf(cfg).Elem(), "")
}

func walkRequired(v reflect.Value, path string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field, meta := v.Field(i), t.Field(i)
		name := meta.Name
		if path != "" {
			name = path + "." + name
		}

		if meta.Tag.Get("required") == "true" && unset(field) {
			return missing(name)
		}
		if field.Kind() == reflect.Struct {
			if err := walkRequired(field, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func unset(v reflect.Value) bool {
	if v.Kind() == reflect.String {
		return v.String() == "" || strings.HasPrefix(v.String(), placeholderPrefix)
	}
	return v.IsZero()
}
