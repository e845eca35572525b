package main

import (
	"taskpal/config"
	"taskpal/di"
	"taskpal/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	worker := di.InitializeWorker()
	worker.Run()
}
