package handlers

import (
	"ekuseyecom/internal/middleware"
	"ekuseyecom/internal/models"
	"ekuseyecom/internal/services"
	"ekuseyecom/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderHandler struct {
	orderService services.OrderService
	cookieName   string
}

func NewOrderHandler(orderService services.OrderService, cookieName string) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cookieName:   cookieName,
	}
}

type orderItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	VariationID string  `json:"variation_id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	LineTotal   float64 `json:"line_total" binding:"min=0"`
}

type createOrderRequest struct {
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	Currency      string             `json:"currency"`
	Items         []orderItemRequest `json:"items" binding:"required,dive"`
	ShippingTotal float64            `json:"shipping_total" binding:"min=0"`
	TaxTotal      float64            `json:"tax_total" binding:"min=0"`
}

// CreateOrder is the checkout endpoint. Referral attribution comes from
// the visitor's tracking cookie, never from the request body.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var request createOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	items := make([]models.OrderItem, 0, len(request.Items))
	for _, item := range request.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid product ID: "+item.ProductID)
			return
		}

		orderItem := models.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}

		if item.VariationID != "" {
			variationID, err := primitive.ObjectIDFromHex(item.VariationID)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid variation ID: "+item.VariationID)
				return
			}
			orderItem.VariationID = &variationID
		}

		items = append(items, orderItem)
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &services.CreateOrderRequest{
		CustomerEmail: request.CustomerEmail,
		Currency:      request.Currency,
		Items:         items,
		ShippingTotal: request.ShippingTotal,
		TaxTotal:      request.TaxTotal,
		RefCode:       middleware.CurrentRef(c, h.cookieName),
	})
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Order created successfully", order)
}

// GetOrder returns one order
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID.")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}
