package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	Port        string
	LogLevel    string
	StoreDriver string
	DatabaseURL string

	SessionMaxAge     time.Duration
	SessionRevalidate bool

	AggregateConcurrency int
	SearchCacheSize      int
	SearchCacheTTL       time.Duration
	ViewTrackerTTL       time.Duration

	CORSOrigins []string
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "couplewatch")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", "your-secret-key-change-in-production")
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("[Config] WARNING: production is running with the default APP_SECRET")
	}

	return &Config{
		Env:         env,
		AppSecret:   appSecret,
		Port:        getEnv("PORT", "5005"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		DatabaseURL: getEnv("DATABASE_URL", dbURL),

		SessionMaxAge:     time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 24*7)) * time.Hour,
		SessionRevalidate: getEnvBool("SESSION_REVALIDATE", true),

		AggregateConcurrency: getEnvInt("AGGREGATE_CONCURRENCY", 8),
		SearchCacheSize:      getEnvInt("SEARCH_CACHE_SIZE", 256),
		SearchCacheTTL:       time.Duration(getEnvInt("SEARCH_CACHE_TTL_MINUTES", 60)) * time.Minute,
		ViewTrackerTTL:       time.Duration(getEnvInt("VIEW_TRACKER_TTL_MINUTES", 30)) * time.Minute,

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
