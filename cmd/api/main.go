package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"bizledger/internal/config"
	"bizledger/internal/database"
	"bizledger/internal/logger"
	"bizledger/internal/server"
)

// @title           Bizledger API
// @version         1.0
// @description     Bizledger tracks income and expenses of a small business and produces statistics and AI-assisted analyses.

// @host      localhost:5001
// @BasePath  /api

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	router := server.NewRouter(server.Options{
		Config: appConfig,
		DB:     dbManager.DB(),
	})

	log.Infow("AI provider selected", "provider", appConfig.AIProvider, "timeout", appConfig.AITimeout.String())
	log.Infof("Starting Bizledger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
