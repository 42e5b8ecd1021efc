package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные на время теста
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var allKeys = []string{
	"ADDR", "PORT", "APP_URL", "JWT_SECRET", "JWT_REFRESH_SECRET", "LOG_LEVEL",
	"DB_DRIVER", "DB_DSN", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "EMAIL_FROM",
	"ALLOWED_ORIGINS", "BCRYPT_COST", "CHECK_EMAIL_DOMAIN", "TRUST_PROXY",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "RATE_LIMIT", "RATE_WINDOW", "AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW",
}

func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "eventz.db", cfg.DatabaseDSN())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, RateLimit{Requests: 100, Window: 15 * time.Minute}, cfg.RateLimit)
	assert.Equal(t, RateLimit{Requests: 5, Window: 15 * time.Minute}, cfg.AuthRateLimit)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SMTPEnabled())
	assert.True(t, cfg.CheckEmailDomain, "domain check is on unless disabled")
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("AUTH_RATE_LIMIT", "10")
	t.Setenv("CHECK_EMAIL_DOMAIN", "false")
	t.Setenv("TRUST_PROXY", "1")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit.Requests)
	assert.False(t, cfg.CheckEmailDomain)
	assert.True(t, cfg.TrustProxy)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load([]string{noEnvFile(t), "-a", ":9000", "-d", "file:test.db"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "file:test.db", cfg.DatabaseDSN())
	assert.Equal(t, "warn", cfg.LogLevel, "flag default must not override env")
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("JWT_REFRESH_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nJWT_REFRESH_SECRET=ignored\n"), 0o600))

	cfg, err := Load([]string{"-env-file", path})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "from-env", cfg.JWTRefreshSecret, "existing env wins over .env")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
		args []string
	}{
		{name: "missing secrets", env: map[string]string{}},
		{name: "equal secrets", env: map[string]string{"JWT_SECRET": "same", "JWT_REFRESH_SECRET": "same"}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "DB_DRIVER": "mysql"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "ACCESS_TOKEN_TTL": "soon"}},
		{name: "bad integer", env: map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "RATE_LIMIT": "-1"}},
		{name: "relative app url", env: map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "APP_URL": "eventz"}},
		{name: "unknown flag", env: map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b"}, args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, allKeys...)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(append([]string{noEnvFile(t)}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN_Postgres(t *testing.T) {
	cfg := Default()
	cfg.DB.Driver = DriverPostgres
	cfg.DB.Host = "db"
	cfg.DB.Port = "5432"
	cfg.DB.User = "eventz"
	cfg.DB.Password = "p@ss word"
	cfg.DB.Name = "eventz"

	assert.Equal(t, "postgres://eventz:p%40ss%20word@db:5432/eventz?sslmode=disable", cfg.DatabaseDSN())

	cfg.DB.DSN = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.DatabaseDSN())
}
