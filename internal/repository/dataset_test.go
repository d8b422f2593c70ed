package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mmr-history/internal/database"
	"mmr-history/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *DatasetRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDatasetRepository(db, zerolog.Nop())
}

func TestReplaceAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []domain.MatchRecord{
		{MatchID: 30, StartTime: 3000, PlayerScore: 1530.5, Rank: 40, Division: 3, DivisionTier: 1},
		{MatchID: 10, StartTime: 1000, PlayerScore: 1500, Rank: 50, Division: 9, DivisionTier: 2},
		{MatchID: 20, StartTime: 2000, PlayerScore: 1510, Rank: 45, Division: 2, DivisionTier: 3},
	}
	fetchedAt := time.Unix(1700000000, 0)

	snap, err := repo.Replace(ctx, domain.Dataset{Player: domain.PlayerA, Records: records, FetchedAt: fetchedAt})
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 3, snap.RecordCount)

	ds, err := repo.Get(ctx, domain.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, records, ds.Records)
	assert.True(t, fetchedAt.Equal(ds.FetchedAt))
}

func TestReplaceIsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Replace(ctx, domain.Dataset{
		Player:    domain.PlayerB,
		Records:   []domain.MatchRecord{{MatchID: 1}, {MatchID: 2}, {MatchID: 3}},
		FetchedAt: time.Now(),
	})
	require.NoError(t, err)

	second, err := repo.Replace(ctx, domain.Dataset{
		Player:    domain.PlayerB,
		Records:   []domain.MatchRecord{{MatchID: 4}},
		FetchedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	ds, err := repo.Get(ctx, domain.PlayerB)
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchRecord{{MatchID: 4}}, ds.Records)

	_, err = repo.Get(ctx, domain.PlayerA)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestReplaceEmptyDataset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Replace(ctx, domain.Dataset{Player: domain.PlayerA, Records: nil, FetchedAt: time.Now()})
	require.NoError(t, err)

	ds, err := repo.Get(ctx, domain.PlayerA)
	require.NoError(t, err)
	assert.NotNil(t, ds.Records)
	assert.Empty(t, ds.Records)
}

func TestReplaceLargeDatasetKeepsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := make([]domain.MatchRecord, 250)
	for i := range records {
		records[i] = domain.MatchRecord{MatchID: int64(len(records) - i), StartTime: int64(i), Division: i%5 + 1}
	}
	_, err := repo.Replace(ctx, domain.Dataset{Player: domain.PlayerA, Records: records, FetchedAt: time.Now()})
	require.NoError(t, err)

	ds, err := repo.Get(ctx, domain.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, records, ds.Records)
}

func TestShouldRefresh(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	refresh, err := repo.ShouldRefresh(ctx, domain.PlayerA, time.Minute)
	require.NoError(t, err)
	assert.True(t, refresh, "uncached dataset")

	_, err = repo.Replace(ctx, domain.Dataset{Player: domain.PlayerA, FetchedAt: time.Now()})
	require.NoError(t, err)
	refresh, err = repo.ShouldRefresh(ctx, domain.PlayerA, time.Minute)
	require.NoError(t, err)
	assert.False(t, refresh, "fresh dataset")

	_, err = repo.Replace(ctx, domain.Dataset{Player: domain.PlayerA, FetchedAt: time.Now().Add(-2 * time.Minute)})
	require.NoError(t, err)
	refresh, err = repo.ShouldRefresh(ctx, domain.PlayerA, time.Minute)
	require.NoError(t, err)
	assert.True(t, refresh, "expired dataset")
}
