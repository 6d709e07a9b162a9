package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultPort = "8080"

// AppConfig is resolved once at startup and passed down explicitly.
type AppConfig struct {
	Port               string
	Production         bool
	CorsAllowedOrigins []string
	Storage            StorageMode
	Fallback           FallbackConfig
	RemoteTimeout      time.Duration
	SkipMigrations     bool
	RateLimit          RateLimitConfig
}

// RateLimitConfig enables the per-IP request limiter. It needs REDIS_ADDRESS.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int64
	Window      time.Duration
}

// FallbackConfig selects the local key-value store behind offline mode.
// RedisAddress wins over Dir when set.
type FallbackConfig struct {
	Dir          string
	RedisAddress string
}

func init() {
	// Load env from .env
	godotenv.Load()
}

func Load() AppConfig {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) AppConfig {
	port := strings.TrimSpace(getenv("API_PORT"))
	if port == "" {
		port = strings.TrimSpace(getenv("PORT"))
	}
	if port == "" {
		port = defaultPort
	}

	fallbackDir := strings.TrimSpace(getenv("FALLBACK_DIR"))
	if fallbackDir == "" {
		fallbackDir = "./data"
	}

	return AppConfig{
		Port:               port,
		Production:         strings.EqualFold(strings.TrimSpace(getenv("GO_ENV")), "production"),
		CorsAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS")),
		Storage:            ResolveStorageMode(getenv),
		Fallback: FallbackConfig{
			Dir:          fallbackDir,
			RedisAddress: strings.TrimSpace(getenv("REDIS_ADDRESS")),
		},
		RemoteTimeout:  time.Duration(intFrom(getenv, "REMOTE_TIMEOUT_SECONDS", 15)) * time.Second,
		SkipMigrations: boolFrom(getenv, "SKIP_MIGRATIONS"),
		RateLimit: RateLimitConfig{
			Enabled:     boolFrom(getenv, "RATE_LIMIT_ENABLED"),
			MaxRequests: int64(intFrom(getenv, "RATE_LIMIT_MAX_REQUESTS", 600)),
			Window:      time.Duration(intFrom(getenv, "RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
	}
}

func intFrom(getenv func(string) string, key string, def int) int {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func boolFrom(getenv func(string) string, key string) bool {
	v := strings.ToLower(strings.TrimSpace(getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func splitCSV(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
