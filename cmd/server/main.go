package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"mmr-history/internal/config"
	"mmr-history/internal/constants"
	fxmodules "mmr-history/internal/fx"
	"mmr-history/internal/middleware"
	"mmr-history/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	historyServer *server.HistoryServer,
	cfg *config.Config,
	db *sql.DB,
	log zerolog.Logger,
) {
	// Loggers are built before config is loaded; the global level caps them all.
	zerolog.SetGlobalLevel(cfg.Level())

	mux := http.NewServeMux()

	path, handler := historyServer.Handler()
	mux.Handle(path, handler)
	mux.HandleFunc("GET /sessions/{id}/charts", historyServer.ChartsPage)
	mux.HandleFunc("GET /sessions/{id}/export.xlsx", historyServer.Export)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.RequestID(log)(c.Handler(mux)),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing database connection")
			}
			log.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
