// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"tienda/internal/domain/auth"
	"tienda/internal/domain/catalogs/category"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/domain/documents/purchase"
	"tienda/internal/domain/documents/sale"
	"tienda/internal/infrastructure/http/v1/handlers"
	"tienda/internal/infrastructure/http/v1/middleware"
	"tienda/internal/infrastructure/storage/postgres"
	"tienda/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service

	CategoryService *category.Service
	ProductService  *product.Service
	PurchaseService *purchase.Service
	SaleService     *sale.Service
}

// NewRouter creates and configures the Gin router.
//
// Reads are open; mutating endpoints require a valid token. Order of the
// global middleware matters: recovery first, then tracing, logging and
// error rendering.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	categoryHandler := handlers.NewCategoryHandler(base, cfg.CategoryService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.PurchaseService)
	saleHandler := handlers.NewSaleHandler(base, cfg.SaleService)

	api := router.Group("/api/v1")
	{
		if cfg.AuthService != nil {
			authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
			api.POST("/auth/login", authHandler.Login)
		}

		// Open reads: a token is picked up when present so reads still
		// carry the acting user in logs.
		reads := api.Group("")
		reads.Use(middleware.OptionalAuth(cfg.JWTValidator))
		{
			reads.GET("/categories", categoryHandler.List)
			reads.GET("/categories/:id", categoryHandler.Get)
			reads.GET("/categories/:id/products", productHandler.ListByCategory)

			reads.GET("/products", productHandler.List)
			reads.GET("/products/:id", productHandler.Get)

			reads.GET("/purchases", purchaseHandler.List)
			reads.GET("/purchases/:id", purchaseHandler.Get)

			reads.GET("/sales", saleHandler.List)
			reads.GET("/sales/:id", saleHandler.Get)
		}

		// Mutations require authentication.
		writes := api.Group("")
		writes.Use(middleware.Auth(cfg.JWTValidator))
		writes.Use(middleware.UserContext())
		{
			writes.POST("/categories", categoryHandler.Create)
			writes.PUT("/categories/:id", categoryHandler.Update)
			writes.DELETE("/categories/:id", middleware.RequireAdmin(), categoryHandler.Delete)

			writes.POST("/products", productHandler.Create)
			writes.PUT("/products/:id", productHandler.Update)
			writes.DELETE("/products/:id", middleware.RequireAdmin(), productHandler.Delete)

			writes.POST("/purchases", purchaseHandler.Create)
			writes.POST("/sales", saleHandler.Create)
		}
	}

	return router
}
