package main

import (
	"os"
	"taskpal/config"
	"taskpal/infras/postgres"
	"taskpal/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down/drop/step-up) is required")
	}

	direction, err := postgres.ParseDirection(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("Use 'up', 'down', 'drop' or 'step-up'")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err = postgres.Migrate(cfg, direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
