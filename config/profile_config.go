package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Storage
	StoreBackend    string
	DatabaseURL     string
	UsersTable      string
	DBMaxConns      int
	DBMaxIdleConns  int
	MongoDBURL      string
	MongoDBName     string
	RedisURL        string
	CacheUserTTLMin int

	// User rules
	UserRequiredAge int

	// Circuit breaker
	BreakerFailureThreshold int
	BreakerTimeoutSec       int

	// CORS
	AllowedOrigins []string

	// Rate limiting, requests per minute per client IP. Zero disables it.
	RateLimitPerMin int

	// Metrics
	MetricsEnabled bool
}

func Load() (*Config, error) {
	databaseURL := getEnv("DATABASE_URL", "")
	defaultBackend := BackendMemory
	if databaseURL != "" {
		defaultBackend = BackendPostgres
	}

	age, err := getEnvIntStrict("USER_REQUIRED_AGE", 18)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Storage
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", defaultBackend)),
		DatabaseURL:     databaseURL,
		UsersTable:      getEnv("USERS_TABLE", "users"),
		DBMaxConns:      getEnvInt("DB_MAX_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 10),
		MongoDBURL:      getEnv("MONGODB_URL", ""),
		MongoDBName:     getEnv("MONGODB_DATABASE", "profiles"),
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheUserTTLMin: getEnvInt("CACHE_USER_TTL_MIN", 30),

		UserRequiredAge: age,

		BreakerFailureThreshold: getEnvInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeoutSec:       getEnvInt("BREAKER_TIMEOUT_SEC", 30),

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 300),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if c.UserRequiredAge < 0 {
		return fmt.Errorf("USER_REQUIRED_AGE must not be negative, got %d", c.UserRequiredAge)
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=%s requires DATABASE_URL", c.StoreBackend)
		}
	case BackendMongo:
		if c.MongoDBURL == "" {
			return fmt.Errorf("STORE_BACKEND=%s requires MONGODB_URL", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must not be negative, got %d", c.RateLimitPerMin)
	}
	if c.BreakerFailureThreshold <= 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be positive, got %d", c.BreakerFailureThreshold)
	}
	return nil
}

// CacheUserTTL is the lifetime of a cached user record.
func (c *Config) CacheUserTTL() time.Duration {
	return time.Duration(c.CacheUserTTLMin) * time.Minute
}

// BreakerTimeout is how long the breaker stays open before probing.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSec) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvIntStrict fails on a set but unparseable value instead of falling back.
func getEnvIntStrict(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return intValue, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
