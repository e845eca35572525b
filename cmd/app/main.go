package main

//go:generate go tool swag init -d ../../ -g cmd/app/main.go -o ../../docs

import (
	"taskpal/config"
	"taskpal/di"
	"taskpal/infras/postgres"
	"taskpal/shared/logger"

	"github.com/rs/zerolog/log"
)

//	@title						TaskPal API
//	@version					1.0
//	@description				Marketplace API for booking local service providers.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := postgres.Migrate(cfg, postgres.DirectionUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
