package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	Env        string
	LogLevel   string

	// Remote clinic API.
	APIBaseURL      string
	APIServiceToken string
	APITimeout      time.Duration

	ClinicTimezone string

	// Optional stores. Empty disables them.
	AuditDBUrl string
	RedisAddr  string
	RedisPass  string
	RedisDB    int
	CatalogTTL time.Duration

	AllowedOrigins string
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		APIBaseURL:      getEnv("CLINIC_API_URL", "http://localhost:8000/api"),
		APIServiceToken: getEnv("CLINIC_API_SERVICE_TOKEN", ""),
		APITimeout:      getDuration("CLINIC_API_TIMEOUT", 10*time.Second),

		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "America/Argentina/Buenos_Aires"),

		AuditDBUrl: getEnv("AUDIT_DATABASE_URL", ""),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		RedisPass:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:    getInt("REDIS_DB", 0),
		CatalogTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),

		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
