package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, ":9090", cfg.GRPCPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "zm_session", cfg.SessionCookie)
	assert.Equal(t, 8*time.Second, cfg.GeneratorTimeout)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "app.env"), []byte("DB_HOST=filehost\nDB_NAME=zen\nSESSION_TTL=1h\n"), 0o600)
	require.NoError(t, err)

	t.Setenv("DB_HOST", "envhost")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.DBHost)
	assert.Equal(t, "zen", cfg.DBName)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
	assert.Contains(t, cfg.DSN(), "host=envhost")
	assert.Contains(t, cfg.DSN(), "dbname=zen")
}
