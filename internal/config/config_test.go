package config

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "10s", cfg.Integrations.FeedTimeout)
	assert.Empty(t, cfg.Integrations.EventsFeedURL)
	assert.False(t, cfg.Membership.AllowSelfElevation)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
jwt:
  secret: from-file
integrations:
  events_feed_url: https://feed.example.com/events.json
`)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "https://feed.example.com/events.json", cfg.Integrations.EventsFeedURL)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{
			name: "missing jwt secret",
			body: "server:\n  port: \"8080\"\n",
		},
		{
			name: "unknown storage driver",
			body: "jwt:\n  secret: s\nstorage:\n  driver: etcd\n",
		},
		{
			name: "redis without address",
			body: "jwt:\n  secret: s\nstorage:\n  driver: redis\n",
		},
		{
			name: "bad feed timeout",
			body: "jwt:\n  secret: s\nintegrations:\n  feed_timeout: soon\n",
		},
		{
			name: "self elevation in production",
			body: "jwt:\n  secret: s\nserver:\n  mode: production\n",
			env:  map[string]string{"MEMBERSHIP_ALLOW_SELF_ELEVATION": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_SelfElevationOutsideProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MEMBERSHIP_ALLOW_SELF_ELEVATION", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Membership.AllowSelfElevation)
}

func TestGetPostgresConnectionString_EscapesCredentials(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "bizlink",
		Password: "p@ss:w/rd?#",
		DBName:   "alliance",
	}}

	dsn, err := url.Parse(cfg.GetPostgresConnectionString())
	require.NoError(t, err)
	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "bizlink", dsn.User.Username())
	password, ok := dsn.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:w/rd?#", password)
	assert.Equal(t, "db.internal:5432", dsn.Host)
	assert.Equal(t, "/alliance", dsn.Path)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
}
