package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ProjectRoot string
	LayoutFile  string
	WorkerCount int
	DatabaseURL string
	LogLevel    zerolog.Level
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		ProjectRoot: getEnv("PROJECT_ROOT", "."),
		LayoutFile:  getEnv("LAYOUT_FILE", ""),
		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/er_editor?sslmode=disable"),
		LogLevel:    getEnvLevel("LOG_LEVEL", zerolog.InfoLevel),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvLevel(key string, fallback zerolog.Level) zerolog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		log.Warn().Str("value", v).Msg("Unknown log level, using default")
		return fallback
	}
	return level
}
