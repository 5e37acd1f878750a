package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.False(t, cfg.IsProd)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, 5*time.Second, cfg.LockWait)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxSize)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, "auction-uploads", cfg.MinIO.Bucket)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Zero(t, cfg.PlatformAdminID)
	assert.Equal(t, "root:@tcp(localhost:3306)/auction?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("IS_PROD", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")
	t.Setenv("PLATFORM_ADMIN_ID", "3")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "market")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("LOCK_WAIT", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
	assert.Equal(t, uint(3), cfg.PlatformAdminID)
	assert.Equal(t, "app:pw@tcp(db:3306)/market?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "minio:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.LockWait)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "dev secret in production", env: map[string]string{"IS_PROD": "true"}},
		{name: "non-numeric redis db", env: map[string]string{"REDIS_DB": "two"}},
		{name: "zero login burst", env: map[string]string{"LOGIN_BURST": "0"}},
		{name: "zero lock ttl", env: map[string]string{"LOCK_TTL": "0s"}},
		{name: "negative lock ttl", env: map[string]string{"LOCK_TTL": "-1s"}},
		{name: "zero lock wait", env: map[string]string{"LOCK_WAIT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
