package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads the environment variables from .env unless GO_ENV says we
// run in a deployed environment.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

// EnvironmentVariable holds the process configuration
type EnvironmentVariable struct {
	GO_ENV string
	PORT   int

	// File layout
	DATA_DIR        string
	SETTINGS_FILE   string
	MENU_CACHE_FILE string
	RATE_LIMIT_FILE string
	UPLOAD_DIR      string

	// Admin session
	JWT_SECRET             string
	JWT_ISSUER             string
	ADMIN_DEFAULT_PASSWORD string

	// Redis (optional, admin login lockout)
	REDIS_URL string

	// In-process scheduler (off unless explicitly enabled)
	CRON_ENABLED     bool
	CRON_SCRAPE_SPEC string

	ALLOWED_ORIGINS string
}

// Get reads the environment into a config struct, applying defaults.
func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "ukotvy-website"
	}

	adminDefault := os.Getenv("ADMIN_DEFAULT_PASSWORD")
	if adminDefault == "" {
		adminDefault = "admin12345"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,

		DATA_DIR:        dataDir,
		SETTINGS_FILE:   filepath.Join(dataDir, "settings.json"),
		MENU_CACHE_FILE: filepath.Join(dataDir, "menu_cache.json"),
		RATE_LIMIT_FILE: filepath.Join(dataDir, "rate_limits.json"),
		UPLOAD_DIR:      filepath.Join(dataDir, "uploads"),

		JWT_SECRET:             os.Getenv("JWT_SECRET"),
		JWT_ISSUER:             jwtIssuer,
		ADMIN_DEFAULT_PASSWORD: adminDefault,

		REDIS_URL: os.Getenv("REDIS_URL"),

		CRON_ENABLED:     os.Getenv("CRON_ENABLED") == "true",
		CRON_SCRAPE_SPEC: os.Getenv("CRON_SCRAPE_SPEC"),

		ALLOWED_ORIGINS: allowedOrigins,
	}

	return envVariables, nil
}
