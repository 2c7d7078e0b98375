package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "saas_admin.db", cfg.DSN)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	assert.Equal(t, 5, cfg.MaxFailedLogins)
	assert.EqualValues(t, 25<<20, cfg.MediaMaxBytes)
	assert.Equal(t, "local", cfg.MediaStorage)
	assert.Equal(t, "/media", cfg.StoreBaseURL())
	assert.True(t, cfg.SchedulerEnabled)
	assert.Contains(t, cfg.Notes, "JWT_SECRET not set, using the development secret")
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "legacy-dsn")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOCKOUT_DURATION", "0s")
	t.Setenv("MAX_FAILED_LOGINS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "legacy-dsn", cfg.DSN)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Zero(t, cfg.LockoutDuration)
	assert.Equal(t, 3, cfg.MaxFailedLogins)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.SchedulerEnabled)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	_, err := Load()
	require.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "user:pass@/db")
	t.Setenv("MEDIA_STORAGE", "gcs")
	t.Setenv("GCS_BUCKET", "")
	_, err = Load()
	require.ErrorContains(t, err, "GCS_BUCKET")
}

func TestStoreBaseURLForGCS(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MEDIA_STORAGE", "gcs")
	t.Setenv("GCS_BUCKET", "media-bucket")
	t.Setenv("GCS_PUBLIC_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/media", cfg.MediaBaseURL)
	assert.Empty(t, cfg.StoreBaseURL())

	t.Setenv("GCS_PUBLIC_BASE_URL", "https://cdn.example.com/media")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media", cfg.StoreBaseURL())
}

// chdir mirrors testing.T.Chdir (Go 1.24+): switch to dir and restore the
// previous working directory when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
