package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setValidAuthEnv(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("SESSION_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setValidAuthEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5001", cfg.Server.GetAddr())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "error_codes.csv", cfg.Store.Path)
	assert.Equal(t, ';', cfg.Store.DelimiterRune())
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "catalog_session", cfg.Auth.CookieName)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.App.IsDevelopment())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setValidAuthEnv(t)
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("STORE_PATH", "/var/lib/catalog/codes.csv")
	t.Setenv("STORE_DELIMITER", "|")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("APP_ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "/var/lib/catalog/codes.csv", cfg.Store.Path)
	assert.Equal(t, '|', cfg.Store.DelimiterRune())
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing password hash", map[string]string{"ADMIN_PASSWORD_HASH": ""}},
		{"plaintext password", map[string]string{"ADMIN_PASSWORD_HASH": "12345678"}},
		{"default secret", map[string]string{"SESSION_SECRET": DefaultSessionSecret}},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"multi character delimiter", map[string]string{"STORE_DELIMITER": ";;"}},
		{"zero ttl", map[string]string{"SESSION_TTL": "0s"}},
		{"quote delimiter", map[string]string{"STORE_DELIMITER": `"`}},
		{"newline delimiter", map[string]string{"STORE_DELIMITER": "\n"}},
		{"carriage return delimiter", map[string]string{"STORE_DELIMITER": "\r"}},
		{"replacement character delimiter", map[string]string{"STORE_DELIMITER": "\uFFFD"}},
		{"insecure cookie in production", map[string]string{"APP_ENVIRONMENT": "production", "SESSION_COOKIE_SECURE": "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidAuthEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadStore_DoesNotNeedCredentials(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("STORE_PATH", "codes.csv")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, "codes.csv", cfg.Store.Path)
}

func TestLoadStore_RejectsUnusableDelimiter(t *testing.T) {
	t.Setenv("STORE_PATH", "codes.csv")
	t.Setenv("STORE_DELIMITER", `"`)

	cfg, err := LoadStore()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
