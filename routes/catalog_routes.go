package routes

import (
	handlers "ekuseyecom/internal/handlers/shared"
	"ekuseyecom/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes sets up the storefront and catalog admin routes
func SetupCatalogRoutes(
	r *gin.RouterGroup,
	productHandler *handlers.ProductHandler,
	bannerHandler *handlers.BannerHandler,
	orderHandler *handlers.OrderHandler,
	jwtSecret string,
) {
	// Public storefront routes
	products := r.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	r.GET("/homepage-banner", bannerHandler.GetHomepageBanner)

	orders := r.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
	}

	// Operator routes
	managed := r.Group("/")
	managed.Use(middleware.AuthRequired(jwtSecret), middleware.ManagerRequired())
	{
		managed.GET("/orders/:id", orderHandler.GetOrder)
		managed.PUT("/products/:id/profit", productHandler.UpdateProductProfit)
		managed.PUT("/variations/:id/profit", productHandler.UpdateVariationProfit)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.GET("/options/probe", bannerHandler.ProbeOptions)
	}
}
