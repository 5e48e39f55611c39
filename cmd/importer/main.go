package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pitara/internal/config"
	"pitara/internal/db"
	"pitara/internal/importer"
	"pitara/internal/logging"
	"pitara/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logging.Init("importer", cfg.LogFile)
	logger := logging.Base()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Error("open file", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Error("import failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
