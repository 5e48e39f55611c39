package main

import (
	"context"
	"os"

	"pitara/internal/config"
	"pitara/internal/db"
	"pitara/internal/logging"
	"pitara/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logging.Init("seed", cfg.LogFile)
	logger := logging.Base()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Error("seed apply", "err", err)
		os.Exit(1)
	}

	logger.Info("seed applied")
}
