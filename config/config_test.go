package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, DefaultDBPath, cfg.Storage.DBPath)
	assert.Equal(t, DefaultRemoteKey, cfg.Storage.Remote.ObjectKey())
	assert.False(t, cfg.Storage.Remote.Complete())
}

func TestLoadRemoteFromEnv(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "stock-data")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_ENDPOINT_URL", "https://r2.example.com")
	t.Setenv("S3_REGION", "auto")
	t.Setenv("STORAGE_BACKEND", "auto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendAuto, cfg.Storage.Backend)
	assert.Equal(t, "stock-data", cfg.Storage.Remote.Bucket)
	assert.Equal(t, "https://r2.example.com", cfg.Storage.Remote.Endpoint)
	assert.Equal(t, "auto", cfg.Storage.Remote.Region)
	assert.True(t, cfg.Storage.Remote.Complete())
}

func TestRemoteCompleteRequiresAllFour(t *testing.T) {
	r := Remote{
		Bucket:          "stock-data",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        "https://r2.example.com",
	}
	assert.True(t, r.Complete())

	missing := r
	missing.SecretAccessKey = ""
	assert.False(t, missing.Complete())
}

func TestRemoteObjectKeyOverride(t *testing.T) {
	assert.Equal(t, "custom/db.sqlite", Remote{Key: "custom/db.sqlite"}.ObjectKey())
	assert.Equal(t, DefaultRemoteKey, Remote{}.ObjectKey())
}
