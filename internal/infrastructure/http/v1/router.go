package v1

import (
	"github.com/gin-gonic/gin"

	"millstock/internal/app"
	"millstock/internal/infrastructure/http/v1/handlers"
	"millstock/internal/infrastructure/http/v1/middleware"
	"millstock/internal/infrastructure/metrics"
	"millstock/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Services *app.Services

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator enables bearer authentication on /api/v1 when non-nil.
	JWTValidator middleware.JWTValidator

	// Metrics is optional; nil disables /metrics and request metrics.
	Metrics *metrics.Metrics

	// Storage names the backend for readiness checks; Pinger may be nil.
	Storage string
	Pinger  handlers.Pinger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.Pinger)
	router.GET("/health", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	}
	v1.Use(middleware.UserContext())

	registerItemRoutes(v1, cfg)
	registerStockRoutes(v1, cfg)
	registerDocumentRoutes(v1, cfg)

	return router
}

// registerItemRoutes registers the item master endpoints.
func registerItemRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewItemHandler(handlers.NewBaseHandler(), cfg.Services.Items)

	items := rg.Group("/items")
	items.GET("", handler.List)
	items.POST("", handler.Create)
	items.GET("/:id", handler.Get)
	items.PUT("/:id", handler.Update)
	items.DELETE("/:id", handler.Delete)
}

// registerStockRoutes registers the read-only ledger views.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewStockHandler(handlers.NewBaseHandler(), cfg.Services.Stock)

	stock := rg.Group("/stock")
	stock.GET("/items/:id", handler.ItemStock)
	stock.GET("/floor", handler.FloorStock)
}

// registerDocumentRoutes registers the four stock document types.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	svc := cfg.Services

	RegisterDocumentRoutes(rg.Group("/gate-inwards"), handlers.NewGateInwardHandler(base, svc.GateInwards))
	RegisterDocumentRoutes(rg.Group("/issue-notes"), handlers.NewIssueNoteHandler(base, svc.IssueNotes))
	RegisterDocumentRoutes(rg.Group("/inward-internals"), handlers.NewInwardInternalHandler(base, svc.InwardInternals))
	RegisterDocumentRoutes(rg.Group("/outward-challans"), handlers.NewOutwardChallanHandler(base, svc.OutwardChallans))
}
