package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "server:\n  http-port: \":9100\"\n")

	cfg, realpath, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, realpath)
	assert.Equal(t, ":9100", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 50, cfg.App.DefaultPageSize)
	assert.Equal(t, "0 7 * * 1-5", cfg.Contract.ReminderCron)
	assert.False(t, cfg.User.RegisterIsEnable)
	assert.Equal(t, 7*24*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, 8*time.Hour, cfg.GetEditFormTTL())
	assert.Equal(t, 30*time.Second, cfg.GetWriteQueueConfig().WriteTimeout)
}

func TestLoadConfig_ExplicitFalseIsKept(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "tracer:\n  enabled: false\ndatabase:\n  auto-migrate: false\nlog:\n  production: false\n")

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Tracer.Enabled)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Log.Production)
	assert.True(t, cfg.Database.ParseTime)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
database:
  type: postgres
  host: db:5432
  password: from-file
mail:
  host: smtp.example.org
contract:
  types: [Miete, Wartung]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PF_MAIL_PASSWORD=from-dotenv\nPF_DATABASE_PASSWORD=ignored\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PF_MAIL_PASSWORD") })

	t.Setenv("PF_DATABASE_PASSWORD", "from-env")
	t.Setenv("PF_MAIL_PORT", "2525")
	t.Setenv("PF_USER_REGISTER_IS_ENABLE", "true")
	t.Setenv("PF_SUPPORT_RECIPIENTS", "ops@example.org, , dev@example.org")

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password, "process env wins over .env")
	assert.Equal(t, "from-dotenv", cfg.Mail.Password)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.True(t, cfg.User.RegisterIsEnable)
	assert.Equal(t, []string{"ops@example.org", "dev@example.org"}, cfg.Support.Recipients)
	assert.Equal(t, []string{"Miete", "Wartung"}, cfg.Contract.Types)

	db := cfg.GetDatabaseConfig()
	assert.Equal(t, "postgres", db.Type)
	assert.Equal(t, "db:5432", db.Host)
	assert.Equal(t, "disable", db.SSLMode)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, t.TempDir(), "server: [")
	_, _, err = LoadConfig(path)
	assert.Error(t, err)

	path = writeConfig(t, t.TempDir(), "")
	t.Setenv("PF_MAIL_PORT", "smtp")
	_, _, err = LoadConfig(path)
	assert.Error(t, err)
}
