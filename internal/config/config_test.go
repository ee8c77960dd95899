package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops a config.yaml into a fresh dir and clears viper's global
// state so each subtest loads in isolation.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	viper.Reset()
	return dir
}

func TestLoadConfigJWTExpiry(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "8080"
  mode: debug
jwt:
  secret: test-secret
  expire: 24h
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	// admin tokens must never outlive a sane bound
	assert.Less(t, cfg.JWT.ExpireTime, 365*24*time.Hour)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: debug\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GameDB.QueryTimeoutS)
	assert.Equal(t, 5*time.Second, cfg.GameDB.QueryTimeout())
	assert.Equal(t, 1000, cfg.GameDB.MaxResultRows)
	assert.Equal(t, 5000, cfg.GameDB.MaxQueryLength)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
}

func TestLoadConfigReleaseRequiresLongSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}
