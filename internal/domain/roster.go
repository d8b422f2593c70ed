package domain

import "fmt"

// Roster holds the display name and resource of both tracked players.
type Roster map[PlayerKey]Player

func DefaultRoster() Roster {
	return Roster{
		PlayerA: {Key: PlayerA, DisplayName: "Blake", Resource: "blake-mmr.json"},
		PlayerB: {Key: PlayerB, DisplayName: "Max", Resource: "max-mmr.json"},
	}
}

func (r Roster) Lookup(key PlayerKey) (Player, error) {
	p, ok := r[key]
	if !ok {
		return Player{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, key)
	}
	return p, nil
}

// DisplayName falls back to the key when the player is not in the roster.
func (r Roster) DisplayName(key PlayerKey) string {
	if p, ok := r[key]; ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return string(key)
}

func (r Roster) Validate() error {
	for _, key := range []PlayerKey{PlayerA, PlayerB} {
		p, ok := r[key]
		if !ok {
			return fmt.Errorf("roster: missing player %q", key)
		}
		if p.DisplayName == "" {
			return fmt.Errorf("roster: player %q has no display name", key)
		}
		if p.Resource == "" {
			return fmt.Errorf("roster: player %q has no resource", key)
		}
	}
	for key := range r {
		if !key.Valid() {
			return fmt.Errorf("roster: %w: %q", ErrUnknownPlayer, key)
		}
	}
	return nil
}
