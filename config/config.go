package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// Analyzer sidecar (the external AI analysis service)
	AnalyzerURL            string
	AnalyzerTimeoutSeconds int // hard ceiling per call, not a shared budget
	// Service-to-service auth with the command dispatcher
	ServiceJWTSecret string
	// Resume file storage
	CVStorageDir string
	// Reminder dispatch worker
	ReminderPollSeconds int
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		DBUrl:                  getEnv("DATABASE_URL", ""),
		AnalyzerURL:            getEnv("ANALYZER_URL", "http://localhost:8090"),
		AnalyzerTimeoutSeconds: getEnvInt("ANALYZER_TIMEOUT_SECONDS", 120),
		ServiceJWTSecret:       getEnv("SERVICE_JWT_SECRET", ""),
		CVStorageDir:           getEnv("CV_STORAGE_DIR", "data/cvs"),
		ReminderPollSeconds:    getEnvInt("REMINDER_POLL_SECONDS", 60),
	}

	// Basic validation to avoid confusing failures later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.ServiceJWTSecret == "" {
		log.Println("WARNING: SERVICE_JWT_SECRET is missing. Protected routes will reject all requests.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
