package handlers

import (
	"fmt"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/services"
	"ekuseyecom/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AffiliateHandler struct {
	commissionService services.CommissionService
}

func NewAffiliateHandler(commissionService services.CommissionService) *AffiliateHandler {
	return &AffiliateHandler{
		commissionService: commissionService,
	}
}

// ClaimCommission reports a pending commission to the external
// conversion API and marks the order claimed on success
func (h *AffiliateHandler) ClaimCommission(c *gin.Context) {
	orderIDStr := c.Param("id")
	orderID, err := primitive.ObjectIDFromHex(orderIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID.")
		return
	}

	actor := c.GetString("user_id")

	result, err := h.commissionService.ClaimCommission(c.Request.Context(), orderID, actor)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, result.Message, result)
}

type markPaidRequest struct {
	OrderIDs []string `json:"order_ids" binding:"required"`
}

// MarkCommissionsPaid is the bulk action: every selected order with a
// referral code is marked paid, the rest are skipped
func (h *AffiliateHandler) MarkCommissionsPaid(c *gin.Context) {
	var request markPaidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if len(request.OrderIDs) == 0 {
		utils.BadRequestResponse(c, "No orders selected.")
		return
	}

	orderIDs := make([]primitive.ObjectID, 0, len(request.OrderIDs))
	for _, idStr := range request.OrderIDs {
		orderID, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid order ID: "+idStr)
			return
		}
		orderIDs = append(orderIDs, orderID)
	}

	actor := c.GetString("user_id")

	result, err := h.commissionService.MarkCommissionsPaid(c.Request.Context(), orderIDs, actor)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	message := fmt.Sprintf("%d commission marked as paid.", result.Changed)
	if result.Changed != 1 {
		message = fmt.Sprintf("%d commissions marked as paid.", result.Changed)
	}

	utils.SuccessResponse(c, message, result)
}

// GetOrderCommission returns the commission block for one order,
// computing and persisting the figures first when they are missing
func (h *AffiliateHandler) GetOrderCommission(c *gin.Context) {
	orderIDStr := c.Param("id")
	orderID, err := primitive.ObjectIDFromHex(orderIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID.")
		return
	}

	commission, err := h.commissionService.GetOrderCommission(c.Request.Context(), orderID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Commission retrieved successfully", commission)
}

// ListCommissionOrders lists orders carrying a referral code,
// optionally filtered by commission status
func (h *AffiliateHandler) ListCommissionOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.CommissionStatus(c.Query("status"))

	orders, total, err := h.commissionService.ListCommissionOrders(c.Request.Context(), status, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Commission orders retrieved successfully", orders, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(orders),
	})
}
