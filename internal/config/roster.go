package config

import (
	"fmt"
	"os"

	"mmr-history/internal/domain"

	"github.com/pelletier/go-toml/v2"
)

type rosterFile struct {
	Players map[string]rosterEntry `toml:"players"`
}

type rosterEntry struct {
	DisplayName string `toml:"display_name"`
	Resource    string `toml:"resource"`
}

// LoadRoster overlays the TOML file at path on the default roster. An empty
// path returns the defaults.
//
//	[players.a]
//	display_name = "Blake"
//	resource = "blake-mmr.json"
func LoadRoster(path string) (domain.Roster, error) {
	roster := domain.DefaultRoster()
	if path == "" {
		return roster, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) (domain.Roster, error) {
	var file rosterFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	roster := domain.DefaultRoster()
	for k, entry := range file.Players {
		key, err := domain.ParsePlayerKey(k)
		if err != nil {
			return nil, fmt.Errorf("roster: %w: %q", err, k)
		}
		p := roster[key]
		if entry.DisplayName != "" {
			p.DisplayName = entry.DisplayName
		}
		if entry.Resource != "" {
			p.Resource = entry.Resource
		}
		roster[key] = p
	}

	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return roster, nil
}
