package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("MYINVOIS_ENV", "dev")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.MyInvois.IsDev())
	assert.False(t, cfg.Archive.Enabled())
	assert.Equal(t, 60*time.Second, cfg.EInvoice.CountdownTick)
	assert.Equal(t, 30*time.Second, cfg.MyInvois.Timeout)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("MYINVOIS_ENV", "Sandbox")
	t.Setenv("MYINVOIS_CLIENT_ID", "id")
	t.Setenv("MYINVOIS_CLIENT_SECRET", "secret")
	t.Setenv("COUNTDOWN_TICK_SECONDS", "5")
	t.Setenv("ARCHIVE_ENDPOINT", "localhost:9000")
	t.Setenv("ARCHIVE_USE_SSL", "true")
	t.Setenv("DB_PORT", "nope")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sandbox", cfg.MyInvois.Env)
	assert.False(t, cfg.MyInvois.IsDev())
	assert.Equal(t, 5*time.Second, cfg.EInvoice.CountdownTick)
	assert.True(t, cfg.Archive.Enabled())
	assert.True(t, cfg.Archive.UseSSL)
	assert.Equal(t, 5432, cfg.DB.Port, "un valor no numérico vuelve al default")
}

func TestLoad_SandboxSinCredenciales(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("MYINVOIS_ENV", "sandbox")
	t.Setenv("MYINVOIS_CLIENT_ID", "")
	t.Setenv("MYINVOIS_CLIENT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/erp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
