package main

import (
	"context"
	"os"

	"pitara/internal/config"
	"pitara/internal/db"
	"pitara/internal/logging"
	"pitara/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logging.Init("migrate", cfg.LogFile)
	logger := logging.Base()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Error("apply migrations", "err", err)
		os.Exit(1)
	}

	logger.Info("migrations applied")
}
