package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort           string
	AppEnv            string
	APIBaseURL        string
	BlogAPIURL        string
	BlogAPIKey        string
	SessionCookieName string
	SessionMaxAge     int
	TelegramBotToken  string
	TelegramAdminChat string
	ProtectedPaths    []string
	AuthPaths         []string
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		APIBaseURL:        getEnv("API_BASE_URL", "https://api.brritto.com/api/v1"),
		BlogAPIURL:        getEnv("BLOG_API_URL", ""),
		BlogAPIKey:        getEnv("BLOG_API_KEY", ""),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "brritto_session"),
		SessionMaxAge:     getEnvInt("SESSION_MAX_AGE", 86400),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChat: getEnv("TELEGRAM_ADMIN_CHAT_ID", ""),
		ProtectedPaths:    getEnvList("PROTECTED_PATHS", "/dashboard,/profile"),
		AuthPaths:         getEnvList("AUTH_PATHS", "/login,/signup"),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("API_BASE_URL must be set")
	}

	return cfg
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
