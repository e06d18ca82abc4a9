package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kvist-io/settingstore/internal/config"
	"github.com/kvist-io/settingstore/internal/database"
	"github.com/kvist-io/settingstore/internal/routes"
	"github.com/kvist-io/settingstore/pkg/debug"
)

func main() {
	// Load .env file, falling back to plain environment variables
	if err := godotenv.Load(); err != nil {
		debug.Warning("No .env file found in current directory: %v", err)

		requiredVars := []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"}
		missingVars := []string{}
		for _, v := range requiredVars {
			if os.Getenv(v) == "" {
				missingVars = append(missingVars, v)
			}
		}

		if len(missingVars) > 0 {
			debug.Error("Missing required environment variables: %v", missingVars)
			debug.Error("Please provide these variables either in a .env file or as environment variables")
			os.Exit(1)
		}
	}

	// Reinitialize debug package with environment variables from .env
	debug.Reinitialize()

	debug.Info("Initializing application...")
	appConfig := config.NewConfig()

	debug.Info("Initializing database connection")
	sqlDB, err := database.Connect()
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(); err != nil {
		debug.Error("Database migrations failed: %v", err)
		os.Exit(1)
	}

	debug.Info("Setting up routes")
	router := mux.NewRouter()
	routes.SetupRoutes(router, sqlDB)

	server := &http.Server{
		Addr:    appConfig.GetAddress(),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		debug.Info("Starting HTTP server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	debug.Info("Server is ready to handle requests")

	select {
	case err := <-serverErr:
		debug.Error("Server error: %v", err)
		os.Exit(1)
	case sig := <-sigChan:
		debug.Info("Received signal: %v", sig)
		debug.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			debug.Error("Error during server shutdown: %v", err)
		}
		debug.Info("Server shutdown complete")
	}
}
