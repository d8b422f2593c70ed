package domain

import (
	"time"
)

const (
	MinDivision   = 1
	MaxDivision   = 5
	DivisionCount = MaxDivision - MinDivision + 1
)

// PlayerKey identifies one of the two tracked players.
type PlayerKey string

const (
	PlayerA PlayerKey = "a"
	PlayerB PlayerKey = "b"
)

func ParsePlayerKey(s string) (PlayerKey, error) {
	k := PlayerKey(s)
	if !k.Valid() {
		return "", ErrUnknownPlayer
	}
	return k, nil
}

func (k PlayerKey) Valid() bool {
	return k == PlayerA || k == PlayerB
}

// Other returns the player that is not k.
func (k PlayerKey) Other() PlayerKey {
	if k == PlayerA {
		return PlayerB
	}
	return PlayerA
}

type MatchRecord struct {
	MatchID      int64
	StartTime    int64 // unix seconds
	PlayerScore  float64
	Rank         float64
	Division     int
	DivisionTier int
}

func (m MatchRecord) HasValidDivision() bool {
	return m.Division >= MinDivision && m.Division <= MaxDivision
}

// Dataset is the complete, ordered match history of one player. It is
// replaced wholesale on every fetch and never mutated in place.
type Dataset struct {
	Player    PlayerKey
	Records   []MatchRecord
	FetchedAt time.Time
}

type Player struct {
	Key         PlayerKey
	DisplayName string
	Resource    string // e.g. "blake-mmr.json"
}
