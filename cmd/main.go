package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.Stage == config.StageDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Analytics only; the game itself never touches the database.
	dbManager := sqlc.NewDbManager(nil)
	if cfg.AnalyticsEnabled() {
		psql := db.MustConnectToDb(cfg.DatabaseURL, db.DefaultMigrationDir)
		defer psql.Close()
		dbManager = sqlc.NewDbManager(sqlc.New(psql))
	} else {
		log.Info().Msg("DATABASE_URL not set; analytics disabled")
	}

	bsm := mc.NewBattleshipSessionManager(mc.WithCleanupInterval(cfg.SessionCleanupInterval))
	go bsm.CleanupPeriodically(ctx)

	bgm := mb.NewBattleshipGameManager()

	rp := api.NewRequestProcessor(
		bsm,
		bgm,
		api.WithOpponentDelay(cfg.OpponentDelay),
		api.WithEndGameDelay(cfg.EndGameDelay),
		api.WithAnalytics(dbManager.Analytics),
	)

	server, err := api.NewServer(rp, api.WithPort(cfg.Port), api.WithStage(cfg.Stage))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
