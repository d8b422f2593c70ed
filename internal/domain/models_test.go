package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerKey(t *testing.T) {
	assert.Equal(t, PlayerB, PlayerA.Other())
	assert.Equal(t, PlayerA, PlayerB.Other())

	k, err := ParsePlayerKey("b")
	require.NoError(t, err)
	assert.Equal(t, PlayerB, k)

	_, err = ParsePlayerKey("c")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestRoster(t *testing.T) {
	r := DefaultRoster()
	require.NoError(t, r.Validate())

	p, err := r.Lookup(PlayerA)
	require.NoError(t, err)
	assert.Equal(t, "Blake", p.DisplayName)
	assert.Equal(t, "blake-mmr.json", p.Resource)
	assert.Equal(t, "Max", r.DisplayName(PlayerB))
	assert.Equal(t, "zz", r.DisplayName("zz"))

	_, err = r.Lookup("zz")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	delete(r, PlayerB)
	assert.Error(t, r.Validate())
}

func TestSourceErrorUnwrap(t *testing.T) {
	err := NewSourceError(PlayerB, "fetch", ErrMalformedRecord)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Equal(t, `fetch dataset "b": malformed match record`, err.Error())
}
