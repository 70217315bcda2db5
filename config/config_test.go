package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "campus_connect", cfg.MongoDatabase)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "log", cfg.EmailProvider)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("PUBLIC_BASE_URL", "https://market.example.edu/")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "https://market.example.edu", cfg.PublicBaseURL)
}

func TestLoadDotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RATE_LIMIT_PER_MINUTE=30\nEMAIL_PROVIDER=log\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("RATE_LIMIT_PER_MINUTE")
		os.Unsetenv("EMAIL_PROVIDER")
	})

	os.Unsetenv("JWT_SECRET")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWTSecret:      "x",
		StoreDriver:    "memory",
		EmailProvider:  "log",
		TokenTTL:       time.Hour,
		RequestTimeout: time.Second,
	}
	require.NoError(t, valid.Validate())

	cfg := valid
	cfg.StoreDriver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")

	cfg = valid
	cfg.EmailProvider = "postmark"
	assert.ErrorContains(t, cfg.Validate(), "POSTMARK_API_TOKEN")

	cfg = valid
	cfg.EmailProvider = "sendgrid"
	cfg.SendgridAPIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg = valid
	cfg.EmailProvider = "pigeon"
	assert.ErrorContains(t, cfg.Validate(), "EMAIL_PROVIDER")
}
