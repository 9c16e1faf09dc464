// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/search"
	"github.com/your-org/butcher-shop-backend/internal/interfaces/http/handlers"
	"github.com/your-org/butcher-shop-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the versioned router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	setupCatalogRoutes(rg, db, cfg)
	setupSearchRoutes(rg, db, redisClient, cfg, logger)
	setupStorefrontRoutes(rg, db, cfg)
	setupWebhookRoutes(rg, db, cfg, logger)
	setupAdminRoutes(rg, db, cfg)
}

func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/categories", productHandler.GetCategories)
		products.GET("/:id", productHandler.GetProduct)
	}
}

func setupSearchRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	cache := search.NewRedisResultCache(redisClient)
	searchHandler := handlers.NewSearchHandler(db, cfg, cache, logger)

	sr := rg.Group("/search")
	{
		sr.POST("", searchHandler.SearchByText)
		sr.POST("/image", searchHandler.SearchByImage)
	}
}

// setupStorefrontRoutes wires cart, wishlist and order routes. They all
// work for guests and signed-in customers alike; the Identity middleware
// resolves which one applies.
func setupStorefrontRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)

	identified := rg.Group("")
	identified.Use(middleware.Identity(cfg))
	{
		cart := identified.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.EmptyCart)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PUT("/items/:id", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
			cart.POST("/merge", cartHandler.MergeCart)
		}

		wishlist := identified.Group("/wishlist")
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("/toggle/:id", wishlistHandler.ToggleWishlistItem)
		}

		orders := identified.Group("/orders")
		{
			orders.GET("", orderHandler.GetMyOrders)
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		}
	}
}

func setupWebhookRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	webhookHandler := handlers.NewWebhookHandler(db, cfg, logger)

	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/identity", webhookHandler.HandleIdentityEvent)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	adminProductHandler := handlers.NewAdminProductHandler(db, cfg)
	adminOrderHandler := handlers.NewAdminOrderHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	rg.POST("/auth/login", authHandler.Login)

	admin := rg.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg))
	{
		admin.GET("/products", adminProductHandler.GetProducts)
		admin.POST("/products", adminProductHandler.CreateProduct)
		admin.PUT("/products/:id", adminProductHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminProductHandler.DeleteProduct)

		admin.GET("/orders", adminOrderHandler.GetOrders)
		admin.GET("/orders/:id", adminOrderHandler.GetOrder)
		admin.PUT("/orders/:id/status", adminOrderHandler.UpdateOrderStatus)
		admin.POST("/orders/expire-pending", adminOrderHandler.ExpireStalePending)

		admin.GET("/analytics", analyticsHandler.GetReport)
	}
}
