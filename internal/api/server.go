package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopopti/internal/api/handlers"
	"shopopti/internal/api/middleware"
	"shopopti/internal/config"
	"shopopti/internal/database"
	"shopopti/internal/dispatch"
	"shopopti/internal/events"
	"shopopti/internal/importer"
	"shopopti/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Wiring
	registry := dispatch.NewRegistry(logger)
	store := importer.NewGormStore(db.DB)
	orchestrator := importer.New(store, logger)
	dispatcher := dispatch.New(registry, orchestrator, logger)

	// Initialize handlers
	supplierHandler := handlers.NewSupplierHandler(db.DB, registry, logger)
	providerHandler := handlers.NewProviderHandler(db.DB, dispatcher, publisher, logger)
	productHandler := handlers.NewProductHandler(db.DB, logger)
	outcomeHandler := handlers.NewOutcomeHandler(db, logger)
	exportHandler := handlers.NewExportHandler(db.DB, store, publisher, cfg, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret))
	{
		// Supplier connections
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", supplierHandler.List)
			suppliers.GET("/:id", supplierHandler.Get)
			suppliers.POST("", supplierHandler.Create)
			suppliers.PUT("/:id", supplierHandler.Update)
			suppliers.DELETE("/:id", supplierHandler.Delete)
			suppliers.POST("/:id/test", supplierHandler.Test)
		}

		// Provider dispatch
		v1.POST("/providers/:provider/:action", providerHandler.Dispatch)

		// Catalog products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		// Import/export outcomes
		outcomes := v1.Group("/outcomes")
		{
			outcomes.GET("", outcomeHandler.List)
			outcomes.GET("/stats", outcomeHandler.Stats)
		}

		// Storefront export
		v1.POST("/export/shopify", exportHandler.Shopify)
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the router for handler tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
