package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "wellness")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://example.com")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Test database configuration
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "wellness", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Equal(t, "host=db.internal port=6543 user=wellness password=postgres dbname=recipes sslmode=require", cfg.PostgresDSN())

	// Test Redis configuration
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)

	// Test HTTP policy
	assert.Equal(t, []string{"http://localhost:5173", "https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "REDIS_URL", "CORS_ORIGINS", "RATE_LIMIT", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "wellnessmate", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Contains(t, cfg.CORSOrigins, "https://wellnessmate.vercel.app")
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("from-secret\n"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
}

func TestLoadConfigProductionRequiresSettings(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_DRIVER", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSL_MODE", "DB_PASSWORD"} {
		t.Setenv(key, "")
	}

	_, err := LoadConfig()
	require.Error(t, err)

	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "db_password")
}

func TestValidateConfig(t *testing.T) {
	cfg := defaults()
	cfg.DBDriver = DriverSQLite
	assert.NoError(t, ValidateConfig(cfg, Production))

	cfg.DBDriver = "mongo"
	assert.ErrorContains(t, ValidateConfig(cfg, Development), "unsupported driver")

	cfg = defaults()
	cfg.CORSOrigins = []string{"localhost:3000"}
	assert.ErrorContains(t, ValidateConfig(cfg, Development), "invalid origin")

	cfg = defaults()
	cfg.RateLimit = 0
	assert.ErrorContains(t, ValidateConfig(cfg, Development), "RATE_LIMIT")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
