package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Catalog.Backend)
	require.Equal(t, SinkFile, cfg.Uploads.Sink)
	require.Equal(t, "/uploads", cfg.Uploads.PublicPrefix)
	require.Equal(t, int64(5<<20), cfg.Uploads.MaxBytes)
	require.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	require.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "Postgres")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("CATALOG_CACHE_TTL", "5")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://toy.example")
	t.Setenv("RATE_LIMIT_USE_REDIS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Catalog.Backend)
	require.Equal(t, 5*time.Second, cfg.Catalog.CacheTTL)
	require.Equal(t, []string{"http://localhost:5173", "https://toy.example"}, cfg.Server.CORSOrigins)
	require.True(t, cfg.RateLimit.UseRedis)
	require.Contains(t, cfg.Postgres.DSN(), "password=secret")
	require.Contains(t, cfg.Postgres.DSN(), "sslmode=disable")
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "sqlite")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "CATALOG_BACKEND")
}

func TestValidateMinIORequiresEndpoint(t *testing.T) {
	t.Setenv("UPLOAD_SINK", "minio")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "MINIO_ENDPOINT")

	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "toyfactory", cfg.MinIO.Bucket)
}

func TestLoadConfigBlankCORSOriginsFallsBackToAny(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " , ")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestValidateRejectsEmptyCORSOrigins(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.Server.CORSOrigins = nil
	require.ErrorContains(t, cfg.Validate(), "CORS_ORIGINS")
}
