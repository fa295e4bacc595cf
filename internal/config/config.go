package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default rosters for the current deployment. Department and document-type
// sets differ between sites, so both can be overridden via environment
// variables without touching the core logic.
var (
	DefaultDepartments = []string{
		"GI", "CHK", "PHY", "ENT", "EYE", "DENT", "SKIN",
		"OBG", "NIGHT OBG", "NIGHT MED", "MED", "PED", "NIGHT PED",
	}
	DefaultDocumentTypes = []string{"WI", "WP", "POLICY", "WAITING TIME", "FORM"}
)

// Config holds all application configuration
type Config struct {
	Env       string
	Port      string
	JWTSecret string
	BaseURL   string
	LogLevel  string

	Database DatabaseConfig
	Storage  StorageConfig
	Rosters  RosterConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// StorageConfig selects and tunes the repository backend.
type StorageConfig struct {
	// Backend is "postgres" or "file".
	Backend string
	// FilePath is the JSON store location for the file backend.
	FilePath string
	// CacheTTL bounds staleness of the file backend's read-through cache.
	CacheTTL time.Duration
}

// RosterConfig holds the deployment's closed enum sets.
type RosterConfig struct {
	Departments   []string
	DocumentTypes []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cacheTTL := 5 * time.Second
	if v := os.Getenv("STORE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STORE_CACHE_TTL: %w", err)
		}
		cacheTTL = d
	}

	backend := getEnv("STORAGE_BACKEND", "postgres")
	if backend != "postgres" && backend != "file" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (want postgres or file)", backend)
	}

	port := getEnv("PORT", "3210")

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      port,
		JWTSecret: jwtSecret,
		BaseURL:   getEnv("BASE_URL", "http://localhost:"+port),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "doctrack"),
		},
		Storage: StorageConfig{
			Backend:  backend,
			FilePath: getEnv("STORE_FILE_PATH", "./data/documents.json"),
			CacheTTL: cacheTTL,
		},
		Rosters: RosterConfig{
			Departments:   getEnvList("DEPARTMENTS", DefaultDepartments),
			DocumentTypes: getEnvList("DOCUMENT_TYPES", DefaultDocumentTypes),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList parses a comma-separated environment variable into a roster.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
