package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hotel-chain/bootstrap"
	"hotel-chain/config"
	"hotel-chain/controllers"
	"hotel-chain/logging"
	"hotel-chain/routes"
)

func main() {
	// .env is optional; Load falls back to the environment and defaults
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer app.Close()

	logger.Info("ledger endpoints",
		zap.String("algod", cfg.Algod.URL),
		zap.String("indexer", cfg.Indexer.URL),
		zap.Uint64("min_round", cfg.Reservation.MinRound),
	)

	// Initialize controllers
	roomController := controllers.NewRoomController(app.Gateway, logger)
	accountController := controllers.NewAccountController(app.Gateway)
	transactionController := controllers.NewTransactionController(app.Journal)

	// Build router
	router := routes.SetupRouter(roomController, accountController, transactionController, routes.Options{
		CORSOrigins: cfg.Server.CORSOriginList(),
		Logger:      logger,
		Metrics:     app.Metrics,
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// mutating calls wait for confirmation
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped gracefully")
}
