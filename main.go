package main

import (
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/EthanCarson/Crazy-Rolls/internal/config"
	"github.com/EthanCarson/Crazy-Rolls/internal/httpserver"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	clock := quartz.NewReal()
	db, saves, err := openStorage(cfg, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer db.Close()

	srv := httpserver.New(cfg, saves, db, clock)
	log.Info().
		Str("port", cfg.Port).
		Int("maxTurns", cfg.MaxTurns).
		Str("policy", cfg.ScoringPolicy).
		Msg("starting crazee server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
