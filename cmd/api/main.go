package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pitara/internal/config"
	"pitara/internal/db"
	"pitara/internal/httpserver"
	"pitara/internal/logging"
	cartrepo "pitara/internal/repository/cart"
	productrepo "pitara/internal/repository/product"
	cartsvc "pitara/internal/service/cart"
	productsvc "pitara/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logging.Init("api", cfg.LogFile)
	logger := logging.Base()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Error("connect to db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	productRepo := productrepo.NewPostgres(pool, logger)
	cartRepo := cartrepo.NewPostgres(pool)
	productService := productsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo, cfg.DefaultCurrency)

	srv, err := httpserver.New(cfg, logger, pool, httpserver.Deps{
		CartSvc:    cartService,
		ProductSvc: productService,
	})
	if err != nil {
		logger.Error("init server", "err", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	} else {
		logger.Info("server stopped")
	}
}
