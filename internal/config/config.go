package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	SessionSecret   string
	SessionTTLHours int

	BlobDir string

	SeedDemoUsers bool

	// VerifyRequiresCapability gates the integrity check behind the verify
	// capability. Off by default: historically any authenticated user could
	// run a verification.
	VerifyRequiresCapability bool

	LoginRateLimit         int
	LoginRateWindowSeconds int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                 addr,
		PostgresDSN:              os.Getenv("POSTGRES_DSN"),
		LogLevel:                 envDefault("LOG_LEVEL", "info"),
		SessionSecret:            os.Getenv("SESSION_SECRET"),
		SessionTTLHours:          envIntDefault("SESSION_TTL_HOURS", 8),
		BlobDir:                  envDefault("BLOB_DIR", "evidence_files"),
		SeedDemoUsers:            envBoolDefault("SEED_DEMO_USERS", false),
		VerifyRequiresCapability: envBoolDefault("VERIFY_REQUIRES_CAPABILITY", false),
		LoginRateLimit:           envIntDefault("LOGIN_RATE_LIMIT", 0),
		LoginRateWindowSeconds:   envIntDefault("LOGIN_RATE_WINDOW_SECONDS", 60),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c Config) LoginRateWindow() time.Duration {
	if c.LoginRateWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.LoginRateWindowSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
