package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
quote:
  cache_ttl: 60s
  providers: ["chart"]
chart:
  width: 640
`)
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("CHARTIMG_API_KEY", "img-key")
	t.Setenv("USE_EMBEDDED_CHARTS", "false")
	t.Setenv("BOT_DEDUPE_CAPACITY", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "img-key", cfg.Chart.APIKey)
	assert.False(t, cfg.Chart.Embedded)
	assert.False(t, cfg.ImagesEnabled())
	assert.Equal(t, 60*time.Second, cfg.Quote.CacheTTL)
	assert.Equal(t, []string{"chart"}, cfg.Quote.Providers)
	assert.Equal(t, 640, cfg.Chart.Width)
	assert.Equal(t, 50, cfg.Bot.DedupeCapacity)

	// untouched defaults
	assert.Equal(t, 500, cfg.Chart.Height)
	assert.Equal(t, 10*time.Second, cfg.Discord.NoticeTTL)
	assert.Equal(t, "!", cfg.Discord.CommandPrefix)
	assert.NoError(t, cfg.RequireDiscord())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "quote:\n  providers: [\"bloomberg\"]\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown provider")
}

func TestRequireDiscord(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDiscord())
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tickerbot", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tickerbot sslmode=disable TimeZone=UTC", cfg.DSN())
	assert.Contains(t, cfg.AdminDSN(), "dbname=postgres")
	assert.Equal(t, "tickerbot", cfg.DBName)
}

type mapSecrets map[string]string

func (m mapSecrets) Get(_ context.Context, name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", errors.New("missing " + name)
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := &Config{Secrets: SecretsConfig{
		DiscordToken: "tok-param",
		ChartAPIKey:  "img-param",
		DBHost:       "host-param",
		DBUser:       "user-param",
		DBPassword:   "pw-param",
	}}
	store := mapSecrets{"tok-param": "T", "img-param": "I"}

	require.NoError(t, cfg.ResolveSecrets(context.Background(), store))
	assert.Equal(t, "T", cfg.Discord.Token)
	assert.Equal(t, "I", cfg.Chart.APIKey)

	// database secrets are only needed with postgres enabled
	cfg.Postgres.Enabled = true
	assert.ErrorContains(t, cfg.ResolveSecrets(context.Background(), store), "host-param")
}
