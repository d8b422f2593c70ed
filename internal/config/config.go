package config

import (
	"fmt"
	"time"

	"mmr-history/internal/domain"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DataBaseURL    string        `env:"DATA_BASE_URL" envDefault:"http://localhost:5173"`
	DBPath         string        `env:"DB_PATH" envDefault:"mmr.db"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Locale         string        `env:"LOCALE" envDefault:"en-US"`
	TimeZone       string        `env:"TIME_ZONE" envDefault:"UTC"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	FetchRateLimit float64       `env:"FETCH_RATE_LIMIT" envDefault:"5"`
	RosterPath     string        `env:"ROSTER_PATH"`

	Roster domain.Roster

	location *time.Location
	level    zerolog.Level
}

func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) Level() zerolog.Level {
	return c.level
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("data_base_url", cfg.DataBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("locale", cfg.Locale).
		Str("time_zone", cfg.TimeZone).
		Dur("cache_ttl", cfg.CacheTTL).
		Float64("fetch_rate_limit", cfg.FetchRateLimit).
		Str("player_a", cfg.Roster.DisplayName(domain.PlayerA)).
		Str("player_b", cfg.Roster.DisplayName(domain.PlayerB)).
		Msg("configuration loaded")

	return cfg, nil
}

// Parse reads the environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	cfg.level = level

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.location = loc

	if cfg.DataBaseURL == "" {
		return nil, fmt.Errorf("DATA_BASE_URL is required")
	}

	roster, err := LoadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}
	cfg.Roster = roster

	return cfg, nil
}

var Module = fx.Provide(Load)
