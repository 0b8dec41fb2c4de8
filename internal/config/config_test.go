package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "portal-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "gcs", cfg.BlobProvider)
	assert.Equal(t, DefaultMaxFileBytes, cfg.MaxFileBytes)
	assert.Equal(t, DefaultUploadMaxBytes, cfg.UploadMaxBytes)
	assert.Equal(t, "noreply@yourdomain.com", cfg.FromEmail)
	assert.Equal(t, 5, cfg.ResetRateLimit)
	assert.Equal(t, time.Hour, cfg.ResetRateWindow)
	assert.Equal(t, "portal.tickets", cfg.AMQPQueue)
	assert.Empty(t, cfg.AMQPURL)
	assert.False(t, cfg.IsRelease())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "portal-test")
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("RESET_RATE_WINDOW", "15m")
	t.Setenv("ADMIN_EMAILS", " Boss@Example.com, ,ops@example.com ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, int64(1048576), cfg.UploadMaxBytes)
	assert.Equal(t, 15*time.Minute, cfg.ResetRateWindow)
	assert.Equal(t, []string{"boss@example.com", "ops@example.com"}, cfg.AdminEmailList())
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Run("missing project id", func(t *testing.T) {
		t.Setenv("FIREBASE_PROJECT_ID", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "FIREBASE_PROJECT_ID")
	})

	t.Run("unknown blob provider", func(t *testing.T) {
		t.Setenv("FIREBASE_PROJECT_ID", "portal-test")
		t.Setenv("BLOB_PROVIDER", "ftp")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "BLOB_PROVIDER")
	})

	t.Run("s3 without region", func(t *testing.T) {
		t.Setenv("FIREBASE_PROJECT_ID", "portal-test")
		t.Setenv("BLOB_PROVIDER", "s3")
		t.Setenv("STORAGE_BUCKET", "portal-files")
		t.Setenv("S3_REGION", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "S3_REGION")
	})
}

func TestAdminEmailList_Empty(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.AdminEmailList())
}
