package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/schedule-assistant/internal/timezone"
)

type Config struct {
	DBUrl      string
	RedisURL   string
	JWTSecret  string
	ServerPort string
	Timezone   string
	GinMode    string

	CORSOrigins []string

	RateLimitEnabled       bool
	RateLimitHTTPPerMinute int
	RateLimitHTTPBurst     int
	RateLimitWSPerMinute   int
	RateLimitWSBurst       int

	SessionCacheSize int
	ThinkDelayMax    time.Duration
}

// Load reads the environment, after applying a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBUrl:      getEnv("DATABASE_URL", ""),
		RedisURL:   getEnv("REDIS_URL", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Timezone:   getEnv("APP_TIMEZONE", timezone.DefaultTimezone),
		GinMode:    getEnv("GIN_MODE", "release"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),

		RateLimitEnabled:       getBool("RATE_LIMIT_ENABLED", true),
		RateLimitHTTPPerMinute: getInt("RATE_LIMIT_HTTP_PER_MINUTE", 60),
		RateLimitHTTPBurst:     getInt("RATE_LIMIT_HTTP_BURST", 10),
		RateLimitWSPerMinute:   getInt("RATE_LIMIT_WS_PER_MINUTE", 30),
		RateLimitWSBurst:       getInt("RATE_LIMIT_WS_BURST", 5),

		SessionCacheSize: getInt("SESSION_CACHE_SIZE", 1024),
		ThinkDelayMax:    getDuration("ASSISTANT_THINK_DELAY_MAX", 0),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// AuthEnabled reports whether session tokens are issued and checked.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
