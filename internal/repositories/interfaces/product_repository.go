package interfaces

import (
	"context"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListProductsParams struct {
	Pagination *utils.PaginationParams
	BrandSlug  string
}

type ProductRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, params *ListProductsParams) ([]*models.Product, int64, error)

	// Cost lookup for the commission calculator. The id may belong to
	// a product or to one of its variations. found is false when no
	// catalog entity carries the id or no buy price is recorded.
	GetBuyPrice(ctx context.Context, id primitive.ObjectID) (buyPrice float64, found bool, err error)

	// Profit field management
	UpdateProductProfit(ctx context.Context, productID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error
	UpdateVariationProfit(ctx context.Context, variationID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error
}
