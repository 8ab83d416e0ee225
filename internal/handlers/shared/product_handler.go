package handlers

import (
	"ekuseyecom/internal/models"
	"ekuseyecom/internal/services"
	"ekuseyecom/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts serves the public catalog listing with brand filtering,
// search, variations and profit enrichment
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	// include_variations defaults to on
	includeVariations := true
	if v := c.Query("include_variations"); v == "0" || v == "false" {
		includeVariations = false
	}

	page, err := h.productService.ListProducts(c.Request.Context(), &services.ProductListParams{
		Pagination:        params,
		BrandSlug:         c.Query("brand"),
		IncludeVariations: includeVariations,
	})
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Products retrieved successfully", page)
}

// GetProduct returns a single catalog product
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID.")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

// CreateProduct adds a catalog product (admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.productService.CreateProduct(c.Request.Context(), &product); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Product created successfully", product)
}

type updateProfitRequest struct {
	BuyPrice        *float64 `json:"buy_price"`
	SalePrice       *float64 `json:"sale_price"`
	DiscountPercent *float64 `json:"discount_percent"`
}

// UpdateProductProfit saves the cost fields of a product and syncs the
// derived storefront prices
func (h *ProductHandler) UpdateProductProfit(c *gin.Context) {
	h.updateProfit(c, false)
}

// UpdateVariationProfit saves the cost fields of one variation
func (h *ProductHandler) UpdateVariationProfit(c *gin.Context) {
	h.updateProfit(c, true)
}

func (h *ProductHandler) updateProfit(c *gin.Context, variation bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	var request updateProfitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	err = h.productService.UpdateProfitFields(c.Request.Context(), &services.UpdateProfitRequest{
		ID:              id,
		Variation:       variation,
		BuyPrice:        request.BuyPrice,
		SalePrice:       request.SalePrice,
		DiscountPercent: request.DiscountPercent,
	})
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Profit fields updated successfully", nil)
}
