package service

import (
	"context"
	"errors"
	"time"

	"mmr-history/internal/config"
	"mmr-history/internal/constants"
	"mmr-history/internal/domain"
	"mmr-history/internal/repository"

	"github.com/rs/zerolog"
)

type datasetFetcher interface {
	FetchDataset(ctx context.Context, player domain.PlayerKey) ([]domain.MatchRecord, error)
}

type datasetCache interface {
	Get(ctx context.Context, player domain.PlayerKey) (*domain.Dataset, error)
	Replace(ctx context.Context, ds domain.Dataset) (*repository.Snapshot, error)
	ShouldRefresh(ctx context.Context, player domain.PlayerKey, ttl time.Duration) (bool, error)
}

// DatasetService is the dataset source used by views: cached copies younger
// than the TTL are served from sqlite, everything else is fetched upstream.
type DatasetService struct {
	fetcher datasetFetcher
	cache   datasetCache
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

func NewDatasetService(cfg *config.Config, fetcher datasetFetcher, cache datasetCache, logger zerolog.Logger) *DatasetService {
	return &DatasetService{
		fetcher: fetcher,
		cache:   cache,
		ttl:     cfg.CacheTTL,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *DatasetService) Fetch(ctx context.Context, player domain.PlayerKey) ([]domain.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if !player.Valid() {
		return nil, domain.NewSourceError(player, "fetch", domain.ErrUnknownPlayer)
	}

	s.logger.Info().Str("player", string(player)).Msg("getting dataset")

	if s.ttl > 0 {
		if records, ok := s.cached(ctx, player); ok {
			return records, nil
		}
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	records, err := s.fetcher.FetchDataset(apiCtx, player)
	if err != nil {
		s.logger.Error().Err(err).Str("player", string(player)).Msg("failed to fetch dataset")
		var srcErr *domain.SourceError
		if errors.As(err, &srcErr) {
			return nil, err
		}
		return nil, domain.NewSourceError(player, "fetch", err)
	}

	s.logWarnings(player, records)

	dbCtx, dbCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer dbCancel()

	snap, err := s.cache.Replace(dbCtx, domain.Dataset{Player: player, Records: records, FetchedAt: s.now()})
	if err != nil {
		s.logger.Warn().Err(err).Str("player", string(player)).Msg("failed to cache dataset")
	} else {
		s.logger.Debug().Str("player", string(player)).Str("snapshot_id", snap.ID).Int("records", snap.RecordCount).Msg("dataset cached")
	}

	s.logger.Info().Str("player", string(player)).Int("records", len(records)).Msg("dataset fetched successfully")
	return records, nil
}

func (s *DatasetService) cached(ctx context.Context, player domain.PlayerKey) ([]domain.MatchRecord, bool) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	shouldRefresh, err := s.cache.ShouldRefresh(dbCtx, player, s.ttl)
	if err != nil {
		s.logger.Warn().Err(err).Str("player", string(player)).Msg("failed to check dataset cache")
		return nil, false
	}
	if shouldRefresh {
		return nil, false
	}

	ds, err := s.cache.Get(dbCtx, player)
	if err != nil {
		s.logger.Warn().Err(err).Str("player", string(player)).Msg("failed to read cached dataset")
		return nil, false
	}

	s.logger.Info().Str("player", string(player)).Int("records", len(ds.Records)).Msg("returning cached dataset")
	s.logWarnings(player, ds.Records)
	return ds.Records, true
}

func (s *DatasetService) logWarnings(player domain.PlayerKey, records []domain.MatchRecord) {
	for _, w := range domain.DivisionWarnings(records) {
		s.logger.Warn().
			Str("player", string(player)).
			Int("index", w.Index).
			Int64("match_id", w.MatchID).
			Int("division", w.Division).
			Msg("match excluded from division distribution")
	}
}
