package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/config"
)

var configExamplePath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	configExamplePath = filepath.Join(filepath.Dir(currentFile), "..", "..", "configs", "config.toml.example")
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse(configExamplePath)
	require.NoError(t, err)
	require.NoError(t, validator.New().Struct(cfg))

	assert.NotEmpty(t, cfg.Log.Level)
	assert.True(t, cfg.Clients.TinkoffInvest.UseSandbox)
	assert.Equal(t, 11*time.Second, cfg.Clients.TinkoffInvest.Timeout.D())
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay.D())
	assert.Equal(t, []string{"NOK", "VEON", "ZYNE"}, cfg.Market.Tickers)
	assert.Equal(t, "stocks", cfg.Market.AssetClass)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvToken, "t.env-token")
	t.Setenv(config.EnvAccountID, "SB-env")

	cfg, err := config.Parse(configExamplePath)
	require.NoError(t, err)
	assert.Equal(t, "t.env-token", cfg.Clients.TinkoffInvest.Token)
	assert.Equal(t, "SB-env", cfg.Clients.TinkoffInvest.AccountID)
}

func TestParse_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[clients.tinkoff_invest]\ntimeout = \"eleven\"\n"), 0o600))

	_, err := config.Parse(path)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(config.EnvAccountID+"=SB-dotenv\n"), 0o600))

	t.Setenv(config.EnvAccountID, "")
	require.NoError(t, os.Unsetenv(config.EnvAccountID))

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "SB-dotenv", os.Getenv(config.EnvAccountID))
}
