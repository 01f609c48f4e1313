package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  cors_origins: ["https://devjobs.example"]

store:
  driver: "mongo"
  mongo_uri: "mongodb://localhost:27017"

upload:
  backend: "s3"
  s3_bucket: "cvs"
  s3_region: "us-east-1"

rate_limit:
  requests: 3
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, []string{"https://devjobs.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "devjobs", cfg.Store.MongoDB)
	assert.Equal(t, "s3", cfg.Upload.Backend)
	assert.Equal(t, "cv", cfg.Upload.S3Prefix)
	assert.Equal(t, 3, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Upload.Backend)
	assert.Equal(t, "uploads/cv", cfg.Upload.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15, cfg.Server.RequestTimeoutSeconds)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_PORT", "3000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 30, cfg.Server.RequestTimeoutSeconds)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RateLimit.RedisURL)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "DATABASE_URL is required")

	cfg.Auth.JWTSecret = "secreto"
	cfg.Store.Driver = "memory"
	assert.NoError(t, cfg.Validate())

	cfg.Upload.Backend = "s3"
	assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")

	cfg.Upload.Backend = "ftp"
	assert.ErrorContains(t, cfg.Validate(), "unknown upload backend")
}
