package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type rawMatch struct {
	MatchID      json.RawMessage `json:"match_id"`
	StartTime    json.RawMessage `json:"start_time"`
	PlayerScore  json.RawMessage `json:"player_score"`
	Rank         json.RawMessage `json:"rank"`
	Division     json.RawMessage `json:"division"`
	DivisionTier json.RawMessage `json:"division_tier"`
}

// ParseMatchRecords decodes a dataset body. Any record with a missing or
// mistyped field fails the whole dataset with a *SourceError; out-of-range
// divisions are accepted here and reported by DivisionWarnings.
func ParseMatchRecords(player PlayerKey, body []byte) ([]MatchRecord, error) {
	var raws []rawMatch
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, NewSourceError(player, "decode", err)
	}
	if raws == nil {
		return nil, NewSourceError(player, "decode", fmt.Errorf("%w: expected an array of matches", ErrMalformedRecord))
	}

	records := make([]MatchRecord, len(raws))
	for i, raw := range raws {
		rec, err := raw.toRecord()
		if err != nil {
			return nil, NewSourceError(player, "decode", fmt.Errorf("record %d: %w", i, err))
		}
		records[i] = rec
	}
	return records, nil
}

func (r rawMatch) toRecord() (MatchRecord, error) {
	var rec MatchRecord
	var err error

	if rec.MatchID, err = intField("match_id", r.MatchID); err != nil {
		return rec, err
	}
	if rec.StartTime, err = intField("start_time", r.StartTime); err != nil {
		return rec, err
	}
	if rec.PlayerScore, err = floatField("player_score", r.PlayerScore); err != nil {
		return rec, err
	}
	if rec.Rank, err = floatField("rank", r.Rank); err != nil {
		return rec, err
	}
	division, err := intField("division", r.Division)
	if err != nil {
		return rec, err
	}
	tier, err := intField("division_tier", r.DivisionTier)
	if err != nil {
		return rec, err
	}
	if division < math.MinInt32 || division > math.MaxInt32 || tier < math.MinInt32 || tier > math.MaxInt32 {
		return rec, fmt.Errorf("%w: division out of integer range", ErrMalformedRecord)
	}
	rec.Division = int(division)
	rec.DivisionTier = int(tier)
	return rec, nil
}

func numberField(name string, raw json.RawMessage) (json.Number, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedRecord, name)
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return "", fmt.Errorf("%w: %s is not a number", ErrMalformedRecord, name)
	}
	return json.Number(raw), nil
}

func intField(name string, raw json.RawMessage) (int64, error) {
	n, err := numberField(name, raw)
	if err != nil {
		return 0, err
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	// 1.0 and 2e0 are integers written as floats.
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedRecord, name)
	}
	return int64(f), nil
}

func floatField(name string, raw json.RawMessage) (float64, error) {
	n, err := numberField(name, raw)
	if err != nil {
		return 0, err
	}
	v, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	return v, nil
}

// DivisionWarnings lists the records whose division is outside 1-5.
func DivisionWarnings(records []MatchRecord) []ValidationWarning {
	var warnings []ValidationWarning
	for i, rec := range records {
		if rec.HasValidDivision() {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			Index:    i,
			MatchID:  rec.MatchID,
			Division: rec.Division,
		})
	}
	return warnings
}
