package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "BASE_URL", "LOG_LEVEL",
		"PG_HOST", "PG_PORT", "PG_USERNAME", "PG_PASSWORD", "PG_DATABASE",
		"STORAGE_BACKEND", "STORE_FILE_PATH", "STORE_CACHE_TTL",
		"DEPARTMENTS", "DOCUMENT_TYPES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3210", cfg.Port)
	assert.Equal(t, "http://localhost:3210", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "./data/documents.json", cfg.Storage.FilePath)
	assert.Equal(t, 5*time.Second, cfg.Storage.CacheTTL)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "doctrack", cfg.Database.Database)

	assert.Equal(t, DefaultDepartments, cfg.Rosters.Departments)
	assert.Equal(t, DefaultDocumentTypes, cfg.Rosters.DocumentTypes)
}

func TestLoadFileBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("STORE_FILE_PATH", "/tmp/docs.json")
	t.Setenv("STORE_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/docs.json", cfg.Storage.FilePath)
	assert.Equal(t, 30*time.Second, cfg.Storage.CacheTTL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_CACHE_TTL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_CACHE_TTL")
}

func TestRosterOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DEPARTMENTS", "ICU, ER ,LAB")
	t.Setenv("DOCUMENT_TYPES", "MEMO")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ICU", "ER", "LAB"}, cfg.Rosters.Departments)
	assert.Equal(t, []string{"MEMO"}, cfg.Rosters.DocumentTypes)
}
