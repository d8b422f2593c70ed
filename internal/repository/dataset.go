package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mmr-history/internal/constants"
	"mmr-history/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrNotCached is returned when no dataset is stored for a player.
var ErrNotCached = errors.New("dataset not cached")

type DatasetRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewDatasetRepository(sqlDB *sql.DB, logger zerolog.Logger) *DatasetRepository {
	return &DatasetRepository{
		db:     sqlDB,
		logger: logger,
	}
}

type Snapshot struct {
	ID          string
	Player      domain.PlayerKey
	RecordCount int
	FetchedAt   time.Time
}

// Replace swaps the stored dataset of ds.Player for ds in one transaction.
func (r *DatasetRepository) Replace(ctx context.Context, ds domain.Dataset) (*Snapshot, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_records WHERE player = ?`, string(ds.Player)); err != nil {
		return nil, fmt.Errorf("failed to clear match records: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (player, snapshot_id, record_count, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			record_count = excluded.record_count,
			fetched_at = excluded.fetched_at`,
		string(ds.Player), id, len(ds.Records), ds.FetchedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_records (player, position, match_id, start_time, player_score, rank, division, division_tier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(ds.Records); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(ds.Records) {
			end = len(ds.Records)
		}

		for pos := i; pos < end; pos++ {
			rec := ds.Records[pos]
			_, err := stmt.ExecContext(ctx, string(ds.Player), pos, rec.MatchID, rec.StartTime,
				rec.PlayerScore, rec.Rank, rec.Division, rec.DivisionTier)
			if err != nil {
				return nil, fmt.Errorf("failed to insert match %d: %w", rec.MatchID, err)
			}
		}
		r.logger.Debug().Str("player", string(ds.Player)).Int("stored", end).Int("total", len(ds.Records)).Msg("stored match batch")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dataset: %w", err)
	}

	return &Snapshot{
		ID:          id,
		Player:      ds.Player,
		RecordCount: len(ds.Records),
		FetchedAt:   time.Unix(ds.FetchedAt.Unix(), 0),
	}, nil
}

func (r *DatasetRepository) GetSnapshot(ctx context.Context, player domain.PlayerKey) (*Snapshot, error) {
	var (
		s         Snapshot
		fetchedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot_id, record_count, fetched_at FROM datasets WHERE player = ?`, string(player)).
		Scan(&s.ID, &s.RecordCount, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	s.Player = player
	s.FetchedAt = time.Unix(fetchedAt, 0)
	return &s, nil
}

// Get returns the stored dataset in its original order.
func (r *DatasetRepository) Get(ctx context.Context, player domain.PlayerKey) (*domain.Dataset, error) {
	snap, err := r.GetSnapshot(ctx, player)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, start_time, player_score, rank, division, division_tier
		FROM match_records
		WHERE player = ?
		ORDER BY position`, string(player))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.MatchRecord, 0, snap.RecordCount)
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(&rec.MatchID, &rec.StartTime, &rec.PlayerScore, &rec.Rank, &rec.Division, &rec.DivisionTier); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Player:    player,
		Records:   records,
		FetchedAt: snap.FetchedAt,
	}, nil
}

func (r *DatasetRepository) ShouldRefresh(ctx context.Context, player domain.PlayerKey, ttl time.Duration) (bool, error) {
	snap, err := r.GetSnapshot(ctx, player)
	if errors.Is(err, ErrNotCached) {
		r.logger.Debug().Str("player", string(player)).Msg("dataset not cached, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("player", string(player)).Msg("failed to get dataset snapshot")
		return false, err
	}

	timeSince := time.Since(snap.FetchedAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Str("player", string(player)).
		Time("fetched_at", snap.FetchedAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if dataset should refresh")

	return shouldRefresh, nil
}
