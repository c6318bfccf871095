package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fdrtidy/internal"
	"fdrtidy/internal/config"
	"fdrtidy/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLoggerFromConfig(appConfig.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	logger.Info("Starting fdrtidy server on port %s", appConfig.Server.Port)
	if err := appContainer.Serve(ctx); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
