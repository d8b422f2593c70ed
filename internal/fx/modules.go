package fx

import (
	"mmr-history/internal/api"
	"mmr-history/internal/config"
	"mmr-history/internal/database"
	"mmr-history/internal/logger"
	"mmr-history/internal/repository"
	"mmr-history/internal/server"
	"mmr-history/internal/service"
	"mmr-history/internal/view"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideDatasetService(cfg *config.Config, client *api.DatasetClient, repo *repository.DatasetRepository, log zerolog.Logger) *service.DatasetService {
	return service.NewDatasetService(cfg, client, repo, log)
}

func ProvideSource(svc *service.DatasetService) view.Source {
	return svc
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewDatasetRepository),
	// api client
	fx.Provide(api.NewDatasetClient),
	// svc
	fx.Provide(ProvideDatasetService),
	fx.Provide(ProvideSource),
	// server
	fx.Provide(server.NewHistoryServer),
)
