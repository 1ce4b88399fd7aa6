package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chen941008/ISMCTS-4tuple/config"
	"github.com/chen941008/ISMCTS-4tuple/experiments"
	"github.com/chen941008/ISMCTS-4tuple/game"
	"github.com/chen941008/ISMCTS-4tuple/weights"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a yaml config file")
	userKind := flag.String("user", string(experiments.KindISMCTS), "User agent: ismcts, mcts or greedy")
	enemyKind := flag.String("enemy", string(experiments.KindMCTS), "Enemy agent: ismcts, mcts or greedy")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(cfg.ZerologLevel()).
		With().Timestamp().Logger()

	mode, err := cfg.SelectionMode()
	if err != nil {
		log.Fatal().Err(err).Msg("parsing selection mode")
	}

	ws := weights.NewStore(log.Logger)
	if err := ws.Load(cfg.WeightsDir, cfg.WeightsID); err != nil {
		log.Fatal().Err(err).Msg("loading weight tables")
	}

	exp := experiments.Experiment{
		Games:    cfg.Games,
		Parallel: cfg.Parallel,
		User: experiments.AgentConfig{
			Kind:           experiments.AgentKind(*userKind),
			Simulations:    cfg.Simulations,
			Selection:      mode,
			CapturePruning: cfg.CapturePruning,
		},
		Enemy: experiments.AgentConfig{
			Kind:           experiments.AgentKind(*enemyKind),
			Simulations:    cfg.Simulations,
			Selection:      mode,
			CapturePruning: cfg.CapturePruning,
		},
		Weights: ws,
		Seed:    cfg.Seed,
	}

	log.Info().
		Str("user", *userKind).
		Str("enemy", *enemyKind).
		Int("games", cfg.Games).
		Int("simulations", cfg.Simulations).
		Msg("starting experiment")

	results, err := exp.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("running experiment")
	}

	w, err := experiments.NewWriter(cfg.ResultsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("creating results dir")
	}
	if err := w.WriteGameRecords(results); err != nil {
		log.Fatal().Err(err).Msg("writing game records")
	}
	if err := w.WriteMoveRecords(results); err != nil {
		log.Fatal().Err(err).Msg("writing move records")
	}

	log.Info().
		Float64("user_winrate", experiments.WinRate(results, game.UserSide)).
		Str("results", cfg.ResultsDir).
		Msg("experiment complete")
}
