// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockbook/internal/domain/audit"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/movement"
	"stockbook/internal/domain/profit"
	"stockbook/internal/domain/reconcile"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// TokenValidator resolves bearer tokens to acting collaborators.
	TokenValidator middleware.TokenValidator

	// Services
	StockService     *movement.Service
	ProfitService    *profit.Service
	CatalogService   *catalog.Service
	InstallmentGuard *reconcile.Guard[reconcile.Installment]
	AuditRecorder    audit.Recorder
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService)
	reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.ProfitService)
	catalogHandler := handlers.NewCatalogHandler(baseHandler, cfg.CatalogService)
	reconcileHandler := handlers.NewReconcileHandler(baseHandler, cfg.InstallmentGuard)
	auditHandler := handlers.NewAuditHandler(baseHandler, cfg.AuditRecorder)

	// API v1 - every mutation needs an attributed actor
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Actor(cfg.TokenValidator))
	{
		variants := apiV1.Group("/variants")
		{
			variants.GET("/:id", stockHandler.GetVariant)
			variants.GET("/:id/movements", stockHandler.GetHistory)
			variants.POST("/:id/movements", stockHandler.RecordMovement)
			variants.POST("/:id/pricing", catalogHandler.OverridePricing)
		}

		products := apiV1.Group("/products")
		{
			products.POST("/:id/category", catalogHandler.ReassignCategory)
		}

		orders := apiV1.Group("/orders")
		{
			orders.POST("/:id/installments/reconcile", reconcileHandler.ReconcileInstallments)
		}

		reports := apiV1.Group("/reports")
		{
			reports.GET("/profitability", reportsHandler.GetProfitability)
		}

		auditGroup := apiV1.Group("/audit")
		{
			auditGroup.GET("/:entityType/:id", auditHandler.GetHistory)
		}
	}

	return router
}
