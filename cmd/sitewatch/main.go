package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"sitewatch/config"
	"sitewatch/internals/app"
	"sitewatch/internals/server"
	"sitewatch/pkg/logger"
)

func main() {
	// Load envs
	cfg, err := config.LoadConfig("env.yaml")
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}
	// ctx is cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Str("service", cfg.ServiceName).Msg("logger initialized")

	// Inject Dependencies
	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Str("store", cfg.Store.Driver).Msg("dependencies initialized")

	// triggers
	app.StartConsumer(ctx, container)
	if container.Scheduler != nil {
		go container.Scheduler.Run()
	}

	// Register Routes
	router := app.RegisterRoutes(container)
	log.Info().Msg("routes registered")

	srv := server.New(fmt.Sprintf(":%d", cfg.Port), router, log)
	srv.Start()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting requests)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Drain in-flight batches and close infra
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
}
