package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Metrics cache backend constants
const (
	MetricsCacheTypeMemory = "memory"
	MetricsCacheTypeRedis  = "redis"
)

// supportedJWTAlgorithms lists the symmetric MAC algorithms accepted for
// token signing. Asymmetric methods are not supported.
var supportedJWTAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

const insecureDefaultSecret = "taskgate-dev-secret-change-in-production"

type Config struct {
	// Server settings
	ServerAddr   string
	IsProduction bool

	// JWT settings
	JWTSecret     string
	JWTAlgorithm  string // "HS256", "HS384" or "HS512"
	JWTExpiration time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)
	DBInitTimeout  time.Duration

	// Rate limiting
	EnableRateLimit          bool
	AuthRateLimit            int    // requests per minute for /users/register and /users/login
	RateLimitStore           string // "memory" or "redis"
	RateLimitCleanupInterval time.Duration

	// Redis (rate limit store and metrics cache)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // optional bearer token protecting /metrics
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string // "memory" or "redis"
	CacheInitTimeout           time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		IsProduction: getEnv("ENVIRONMENT", "development") == "production",

		JWTSecret:    getEnv("JWT_SECRET", insecureDefaultSecret),
		JWTAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
		JWTExpiration: time.Duration(
			getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		) * time.Minute,

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "taskgate.db"),
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		AuthRateLimit:            getEnvInt("AUTH_RATE_LIMIT", 5),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", true),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 30*time.Second),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),
		CacheInitTimeout:           getEnvDuration("CACHE_INIT_TIMEOUT", 10*time.Second),
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction && c.JWTSecret == insecureDefaultSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if !supportedJWTAlgorithms[c.JWTAlgorithm] {
		return fmt.Errorf(
			"unsupported JWT_ALGORITHM: %s (must be: HS256, HS384, HS512)",
			c.JWTAlgorithm,
		)
	}
	if c.JWTExpiration <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if c.EnableRateLimit && c.AuthRateLimit <= 0 {
		return errors.New("AUTH_RATE_LIMIT must be positive when rate limiting is enabled")
	}
	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE: %s (must be: memory, redis)",
			c.RateLimitStore,
		)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
