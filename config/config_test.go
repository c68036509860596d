package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DICTIONARY_PATH", "OUTPUTS_DIR", "LISTEN_ADDR", "LOG_LEVEL", "S3_BUCKET", "AWS_REGION", "RATE_LIMIT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(":8000", cfg.Server.ListenAddr)
	assert.Equal(LogInfo, cfg.Server.LogLevel)
	assert.Equal(10, cfg.Server.RateLimit)
	assert.Equal(30, cfg.Server.DownloadRateLimit)
	assert.Equal("data/en_US.txt", cfg.Dictionary.Path)
	assert.Equal("outputs", cfg.Outputs.Dir)
	assert.Equal(168*time.Hour, cfg.Outputs.MaxAge)
	assert.False(cfg.Decode.Fuzzy)
	assert.Equal(500, cfg.Limits.MaxTextLength)
	assert.Equal(int64(5*1024*1024), cfg.Limits.MaxFileSize)
}

func TestLoadFromReader(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader(`
server:
  listen_addr: ":9000"
  log_level: debug
outputs:
  max_age: 1h
  s3_bucket: music
decode:
  fuzzy: true
  fuzzy_threshold: 0.85
`))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(":9000", cfg.Server.ListenAddr)
	assert.Equal(slog.LevelDebug, cfg.Server.LogLevel.Level())
	assert.Equal(time.Hour, cfg.Outputs.MaxAge)
	assert.Equal("music", cfg.Outputs.S3Bucket)
	assert.True(cfg.Decode.Fuzzy)
	assert.Equal(0.85, cfg.Decode.FuzzyThreshold)
	// untouched fields keep their defaults
	assert.Equal(10, cfg.Server.RateLimit)
}

func TestUnknownFieldsRejected(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromReader(strings.NewReader("server:\n  listen: \":1\"\n"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DICTIONARY_PATH", "/tmp/dict.txt")
	t.Setenv("LISTEN_ADDR", ":1234")
	t.Setenv("RATE_LIMIT", "3")

	cfg, err := LoadFromReader(strings.NewReader("server:\n  listen_addr: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dict.txt", cfg.Dictionary.Path)
	assert.Equal(t, ":1234", cfg.Server.ListenAddr)
	assert.Equal(t, 3, cfg.Server.RateLimit)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.LogLevel = "loud"
	cfg.Decode.FuzzyThreshold = 2
	cfg.Limits.MaxTextLength = 0
	cfg.Server.DownloadRateLimit = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.log_level")
	assert.Contains(t, err.Error(), "decode.fuzzy_threshold")
	assert.Contains(t, err.Error(), "limits.max_text_length")
	assert.Contains(t, err.Error(), "server.download_rate_limit")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
