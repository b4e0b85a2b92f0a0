package main

import (
	"context"
	"go-link-shortener/config"
	"go-link-shortener/server"
	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize zap logger: " + err.Error())
	}
}

func main() {
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Starting link shortener application...")
	if err := server.Run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
	logger.Info("Link shortener application stopped.")
}
