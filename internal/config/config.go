package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ascendo/trainboard/internal/store"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Throttle store.ThrottleConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type StorageConfig struct {
	DataDir       string
	SectorsDir    string
	PageDir       string
	FlushInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			DataDir:       getEnv("DATA_DIR", "data"),
			SectorsDir:    getEnv("SECTORS_DIR", "sectors"),
			PageDir:       getEnv("PAGE_DIR", "page"),
			FlushInterval: getEnvAsDuration("FLUSH_INTERVAL", 30*time.Second),
		},
		Throttle: loadThrottleConfig(),
	}

	return cfg, nil
}

// loadThrottleConfig reads the login throttle knobs, falling back to the
// defaults the data files were tuned against.
func loadThrottleConfig() store.ThrottleConfig {
	defaults := store.DefaultThrottleConfig()
	return store.ThrottleConfig{
		BanThreshold:   getEnvAsInt("THROTTLE_BAN_THRESHOLD", defaults.BanThreshold),
		WaitMultiplier: getEnvAsDuration("THROTTLE_WAIT_MULTIPLIER", defaults.WaitMultiplier),
		BanDuration:    getEnvAsDuration("THROTTLE_BAN_DURATION", defaults.BanDuration),
		CleanupAge:     getEnvAsDuration("THROTTLE_CLEANUP_AGE", defaults.CleanupAge),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		// Default to no origins in production; everything must be explicit.
		return parseList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
