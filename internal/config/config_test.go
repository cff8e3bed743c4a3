package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ACCESS_TOKEN_DURATION", "not-a-duration")
	t.Setenv("MAX_UPLOAD_SIZE", "abc")
	t.Setenv("TIME_ZONE", "Asia/Tokyo")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "Asia/Tokyo", cfg.TimeZone.String())
	assert.True(t, cfg.Features.ExcludeTags)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET_NAME", "forum-bucket")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FEATURE_EXCLUDE_TAGS", "false")
	t.Setenv("STEP_UP_TOKEN_DURATION", "5m")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, "forum-bucket", cfg.S3.BucketName)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Features.ExcludeTags)
	assert.Equal(t, 5*time.Minute, cfg.StepUpTokenDuration)
}

func TestLoadLocation_Unknown(t *testing.T) {
	assert.Equal(t, time.UTC, loadLocation("Mars/Olympus"))
}
