package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), "", envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultKeyLengths, cfg.KeyLengths)
	assert.Empty(t, cfg.Key)
	assert.Empty(t, cfg.BlobPath)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	cfg, err := loadConfig(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"PPDECRYPT_KEY":         testKey21,
		"PPDECRYPT_KEY_LENGTHS": "24,21",
		"PPDECRYPT_BLOB_PATH":   "data.a",
		"PPDECRYPT_LOG_LEVEL":   "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, testKey21, cfg.Key)
	assert.Equal(t, []int{24, 21}, cfg.KeyLengths)
	assert.Equal(t, "data.a", cfg.BlobPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"PPDECRYPT_KEY_LENGTHS": "21,zero",
	}))
	assert.Error(t, err)

	_, err = loadConfig(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"PPDECRYPT_KEY_LENGTHS": "21,0",
	}))
	assert.Error(t, err)

	_, err = loadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.env"), nil)
	assert.Error(t, err)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PPDECRYPT_BLOB_PATH=custom.blob\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PPDECRYPT_BLOB_PATH") })

	cfg, err := loadConfig(context.Background(), envFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom.blob", cfg.BlobPath)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger("warn", false, &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger, err = newLogger("warn", true, &buf)
	require.NoError(t, err)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	_, err = newLogger("loud", false, &buf)
	assert.Error(t, err)
}
