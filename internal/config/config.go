package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort           string
	ServerReadTimeout    time.Duration
	ServerWriteTimeout   time.Duration
	ServerIdleTimeout    time.Duration
	RequestTimeout       time.Duration
	DatabaseURL          string
	DBMaxConns           int32
	DBMinConns           int32
	JWTSecret            string
	JWTAccessTTL         time.Duration
	JWTRefreshTTL        time.Duration
	CORSOrigins          []string
	RateLimitRPM         int
	AuthRateLimitRPM     int
	RestorationBadgeDays int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:    getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:           int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:           int32(getInt("DB_MIN_CONNS", 2)),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:         getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		JWTRefreshTTL:        getDuration("JWT_REFRESH_TTL", 168*time.Hour),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:     getInt("AUTH_RATE_LIMIT_RPM", 10),
		RestorationBadgeDays: getInt("RESTORATION_BADGE_DAYS", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}

	if c.RestorationBadgeDays < 0 {
		return fmt.Errorf("RESTORATION_BADGE_DAYS cannot be negative")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
