// Package server assembles the HTTP router from services and handlers.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"bizledger/internal/ai"
	"bizledger/internal/ai/provider"
	"bizledger/internal/config"
	_ "bizledger/internal/docs" // Import swagger docs
	"bizledger/internal/handlers"
	"bizledger/internal/middleware"
	"bizledger/internal/services"
	"bizledger/internal/validator"
)

// Options carries the collaborators of the router. Provider and Now are
// optional; tests use them to stub the completion backend and the clock.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Provider provider.Provider
	Now      func() time.Time
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(opts Options) *gin.Engine {
	validator.Register()

	cfg := opts.Config
	db := opts.DB

	p := opts.Provider
	if p == nil {
		p = provider.New(cfg)
	}

	// Services
	categoryService := services.NewCategoryService(db)
	operationService := services.NewOperationService(db)
	statisticsService := services.NewStatisticsService(db, categoryService)
	analysisService := services.NewAnalysisService(db)
	forecastService := services.NewForecastService(db)
	chatLog := services.NewChatLogService(db)

	advisor := ai.NewAdvisor(ai.Dependencies{
		Statistics: statisticsService,
		Categories: categoryService,
		Operations: operationService,
		Analyses:   analysisService,
		Forecasts:  forecastService,
		Chats:      chatLog,
		Provider:   p,
		Now:        opts.Now,
	})

	// Handlers
	operationHandler := handlers.NewOperationHandler(operationService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	analyticsHandler := handlers.NewAnalyticsHandler(statisticsService)
	aiHandler := handlers.NewAIHandler(advisor, forecastService, chatLog)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	healthHandler := handlers.NewHealthHandler(db)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.NotFound())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", healthHandler.Health)

	operations := api.Group("/operations")
	operations.GET("", operationHandler.ListOperations)
	operations.POST("", operationHandler.CreateOperation)
	operations.GET("/:id", operationHandler.GetOperation)
	operations.PUT("/:id", operationHandler.UpdateOperation)
	operations.DELETE("/:id", operationHandler.DeleteOperation)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	analytics := api.Group("/analytics")
	analytics.GET("/statistics", analyticsHandler.GetStatistics)
	analytics.GET("/expenses-by-category", analyticsHandler.GetExpensesByCategory)
	analytics.GET("/summary", analyticsHandler.GetSummary)

	aiGroup := api.Group("/ai")
	aiGroup.GET("/health", aiHandler.Health)
	aiGroup.POST("/analyze-economy", aiHandler.AnalyzeEconomy)
	aiGroup.GET("/quarter-report", aiHandler.QuarterReport)
	aiGroup.GET("/forecast", aiHandler.Forecast)
	aiGroup.GET("/forecasts", aiHandler.ListForecasts)
	aiGroup.POST("/chat", aiHandler.Chat)
	aiGroup.GET("/chat/history", aiHandler.ChatHistory)
	aiGroup.POST("/refresh-data", aiHandler.RefreshData)
	aiGroup.POST("/test-add-analysis", analysisHandler.CreateAnalysis)

	analyses := aiGroup.Group("/analyses")
	analyses.GET("", analysisHandler.ListAnalyses)
	analyses.POST("", analysisHandler.CreateAnalysis)
	analyses.GET("/favorites", analysisHandler.ListFavorites)
	analyses.GET("/:id", analysisHandler.GetAnalysis)
	analyses.DELETE("/:id", analysisHandler.DeleteAnalysis)
	analyses.POST("/:id/favorite", analysisHandler.ToggleFavorite)
	analyses.DELETE("/type/:type", analysisHandler.DeleteAnalysesByType)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
