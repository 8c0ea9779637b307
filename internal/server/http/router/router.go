package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/biso-no/shopcore/internal/config"
	"github.com/biso-no/shopcore/internal/server/http/handlers"
	"github.com/biso-no/shopcore/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	shopHandler := handlers.NewShopHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade, cfg.WebhookSecret)
	cronHandler := handlers.NewCronHandler(facade)

	api := engine.Group("/api")

	shop := api.Group("/shop")
	shop.GET("/products", shopHandler.ListProducts)
	shop.GET("/products/:id", shopHandler.GetProduct)
	shop.GET("/products/:id/limit", shopHandler.CheckLimit)
	shop.POST("/checkout", shopHandler.Checkout)

	api.POST("/payments/webhook", webhookHandler.Handle)

	admin := api.Group("/admin")
	admin.Use(middleware.TokenRequired(cfg.ServiceToken))
	admin.GET("/orders/export", adminHandler.ExportOrders)
	admin.GET("/metrics", adminHandler.Metrics)

	cron := api.Group("/cron")
	cron.Use(middleware.TokenRequired(cfg.ServiceToken))
	cron.GET("/cleanup", cronHandler.Cleanup)

	return engine
}
