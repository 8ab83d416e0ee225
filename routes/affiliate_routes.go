package routes

import (
	handlers "ekuseyecom/internal/handlers/shared"
	"ekuseyecom/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAffiliateRoutes sets up routes for commission management
func SetupAffiliateRoutes(r *gin.RouterGroup, affiliateHandler *handlers.AffiliateHandler, jwtSecret string) {
	// Operator routes: claiming and paying out commissions requires
	// order management permissions
	affiliate := r.Group("/affiliate")
	affiliate.Use(middleware.AuthRequired(jwtSecret), middleware.ManagerRequired())
	{
		affiliate.GET("/orders", affiliateHandler.ListCommissionOrders)
		affiliate.GET("/orders/:id/commission", affiliateHandler.GetOrderCommission)
		affiliate.POST("/orders/:id/claim", affiliateHandler.ClaimCommission)
		affiliate.POST("/orders/mark-paid", affiliateHandler.MarkCommissionsPaid)
	}
}
