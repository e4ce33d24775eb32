package main

import (
	"afk-helper/bot"
	"afk-helper/config"
	"afk-helper/handlers"
	"afk-helper/utils/database"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	config.SetupLogging(os.Getenv("LOG_LEVEL"), config.IsTruthy(os.Getenv("LOG_PRETTY")))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	db, err := database.InitAFKDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("error initializing database")
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating bot")
	}
	defer b.Close()

	handlers.Register(b)

	if err := b.Run(); err != nil {
		log.Error().Err(err).Msg("bot stopped")
	}
}
