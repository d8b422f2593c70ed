package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchRecords(t *testing.T) {
	body := []byte(`[
		{"match_id": 1, "start_time": 1000, "player_score": 1500, "rank": 50, "division": 1, "division_tier": 2},
		{"match_id": 2, "start_time": 2000, "player_score": 1512.5, "rank": 48, "division": 7, "division_tier": 0}
	]`)

	records, err := ParseMatchRecords(PlayerA, body)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, MatchRecord{MatchID: 1, StartTime: 1000, PlayerScore: 1500, Rank: 50, Division: 1, DivisionTier: 2}, records[0])
	assert.Equal(t, 1512.5, records[1].PlayerScore)
	assert.Equal(t, 7, records[1].Division)
}

func TestParseMatchRecordsIntegralFloats(t *testing.T) {
	body := []byte(`[
		{"match_id": 3.0, "start_time": 1.7e9, "player_score": 1500, "rank": 50, "division": 1.0, "division_tier": 2e0}
	]`)

	records, err := ParseMatchRecords(PlayerA, body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, MatchRecord{MatchID: 3, StartTime: 1700000000, PlayerScore: 1500, Rank: 50, Division: 1, DivisionTier: 2}, records[0])
}

func TestParseMatchRecordsEmpty(t *testing.T) {
	records, err := ParseMatchRecords(PlayerB, []byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParseMatchRecordsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"object instead of array", `{"match_id": 1}`},
		{"null", `null`},
		{"missing division", `[{"match_id": 1, "start_time": 1, "player_score": 1, "rank": 1, "division_tier": 1}]`},
		{"null score", `[{"match_id": 1, "start_time": 1, "player_score": null, "rank": 1, "division": 1, "division_tier": 1}]`},
		{"fractional division", `[{"match_id": 1, "start_time": 1, "player_score": 1, "rank": 1, "division": 2.5, "division_tier": 1}]`},
		{"fractional exponent tier", `[{"match_id": 1, "start_time": 1, "player_score": 1, "rank": 1, "division": 2, "division_tier": 15e-1}]`},
		{"string division", `[{"match_id": 1, "start_time": 1, "player_score": 1, "rank": 1, "division": "2", "division_tier": 1}]`},
		{"string score", `[{"match_id": 1, "start_time": 1, "player_score": "high", "rank": 1, "division": 2, "division_tier": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseMatchRecords(PlayerA, []byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, records)

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, PlayerA, srcErr.Player)
			assert.Equal(t, "decode", srcErr.Op)
		})
	}
}

func TestParseMatchRecordsReportsIndex(t *testing.T) {
	body := []byte(`[
		{"match_id": 1, "start_time": 1, "player_score": 1, "rank": 1, "division": 1, "division_tier": 1},
		{"match_id": 2, "start_time": 1, "player_score": 1, "rank": 1, "division_tier": 1}
	]`)

	_, err := ParseMatchRecords(PlayerA, body)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "record 1")
	assert.Contains(t, err.Error(), "missing division")
}

func TestDivisionWarnings(t *testing.T) {
	records := []MatchRecord{
		{MatchID: 10, Division: 3},
		{MatchID: 11, Division: 7},
		{MatchID: 12, Division: 0},
		{MatchID: 13, Division: 5},
	}

	warnings := DivisionWarnings(records)
	require.Len(t, warnings, 2)
	assert.Equal(t, ValidationWarning{Index: 1, MatchID: 11, Division: 7}, warnings[0])
	assert.Equal(t, ValidationWarning{Index: 2, MatchID: 12, Division: 0}, warnings[1])
	assert.Contains(t, warnings[0].String(), "division 7 outside 1-5")

	assert.Empty(t, DivisionWarnings(nil))
}
