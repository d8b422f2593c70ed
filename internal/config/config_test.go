package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mmr-history/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_BASE_URL", "DB_PATH", "SERVER_PORT", "LOG_LEVEL", "LOCALE",
		"TIME_ZONE", "CACHE_TTL", "FETCH_RATE_LIMIT", "ROSTER_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5173", cfg.DataBaseURL)
	assert.Equal(t, "mmr.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5.0, cfg.FetchRateLimit)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, domain.DefaultRoster(), cfg.Roster)
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BASE_URL", "https://example.test/data")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIME_ZONE", "Europe/Berlin")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("LOCALE", "de-DE")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/data", cfg.DataBaseURL)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "de-DE", cfg.Locale)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "log level", key: "LOG_LEVEL", value: "loud"},
		{name: "time zone", key: "TIME_ZONE", value: "Mars/Olympus"},
		{name: "cache ttl", key: "CACHE_TTL", value: "soon"},
		{name: "roster path", key: "ROSTER_PATH", value: "/nonexistent/roster.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadRosterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[players.b]
display_name = "Maxine"
resource = "maxine.json"
`), 0o644))

	roster, err := LoadRoster(path)
	require.NoError(t, err)

	assert.Equal(t, "Blake", roster.DisplayName(domain.PlayerA))
	assert.Equal(t, "blake-mmr.json", roster[domain.PlayerA].Resource)
	assert.Equal(t, "Maxine", roster.DisplayName(domain.PlayerB))
	assert.Equal(t, "maxine.json", roster[domain.PlayerB].Resource)
}

func TestParseRosterPartialEntry(t *testing.T) {
	roster, err := ParseRoster([]byte("[players.a]\ndisplay_name = \"Bee\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "Bee", roster.DisplayName(domain.PlayerA))
	assert.Equal(t, "blake-mmr.json", roster[domain.PlayerA].Resource)
}

func TestParseRosterErrors(t *testing.T) {
	_, err := ParseRoster([]byte("[players.c]\ndisplay_name = \"Carol\"\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownPlayer)

	_, err = ParseRoster([]byte("[players.a\n"))
	assert.Error(t, err)
}

func TestLoadRosterEmptyPath(t *testing.T) {
	roster, err := LoadRoster("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRoster(), roster)
}
