package config

import (
	"os"
	"time"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	GinMode string
	Port    string

	JWTSecret string
	TokenTTL  time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OracleTimeout time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "helpdesk"),
		DBPassword: getEnv("DB_PASSWORD", "helpdesk"),
		DBName:     getEnv("DB_NAME", "helpdesk"),

		GinMode: getEnv("GIN_MODE", "debug"),
		Port:    getEnv("PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:  getDuration("TOKEN_TTL", 8*time.Hour),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OracleTimeout: getDuration("ORACLE_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
