package mongodb

import (
	"context"
	"fmt"
	"time"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

func NewProductRepository(db *mongo.Database, cache *cache.RedisCache) interfaces.ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		cache:      cache,
	}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	for i := range product.Variations {
		if product.Variations[i].ID.IsZero() {
			product.Variations[i].ID = primitive.NewObjectID()
		}
	}

	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("product_%s", id.Hex())
	if r.cache != nil {
		var product models.Product
		if err := r.cache.Get(ctx, cacheKey, &product); err == nil {
			return &product, nil
		}
	}

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewServiceError(utils.ErrCodeNotFound, "Product not found.")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, product, utils.ProductListCacheTTL)
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context, params *interfaces.ListProductsParams) ([]*models.Product, int64, error) {
	filter := bson.M{}

	if params.Pagination.Search != "" {
		filter["name"] = bson.M{"$regex": params.Pagination.Search, "$options": "i"}
	}
	if params.BrandSlug != "" {
		filter["brands.slug"] = params.BrandSlug
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(params.Pagination.Skip()).
		SetLimit(int64(params.Pagination.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

// GetBuyPrice resolves a recorded cost by product id first, then by
// variation id. A catalog entity without a recorded buy price counts
// as not found; the calculator treats that as zero cost.
func (r *productRepository) GetBuyPrice(ctx context.Context, id primitive.ObjectID) (float64, bool, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == nil {
		if product.Profit.BuyPrice == nil {
			return 0, false, nil
		}
		return *product.Profit.BuyPrice, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, false, fmt.Errorf("failed to look up buy price: %w", err)
	}

	err = r.collection.FindOne(ctx, bson.M{"variations._id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up variation buy price: %w", err)
	}

	for _, v := range product.Variations {
		if v.ID == id {
			if v.Profit.BuyPrice == nil {
				return 0, false, nil
			}
			return *v.Profit.BuyPrice, true, nil
		}
	}

	return 0, false, nil
}

func (r *productRepository) UpdateProductProfit(ctx context.Context, productID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{
			"profit":        profit,
			"regular_price": prices.RegularPrice,
			"sale_price":    prices.SalePrice,
			"price":         prices.Price,
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product profit fields: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewServiceError(utils.ErrCodeNotFound, "Product not found.")
	}

	r.invalidateProductCache(ctx, productID.Hex())

	return nil
}

func (r *productRepository) UpdateVariationProfit(ctx context.Context, variationID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"variations._id": variationID},
		bson.M{"$set": bson.M{
			"variations.$.profit":        profit,
			"variations.$.regular_price": prices.RegularPrice,
			"variations.$.sale_price":    prices.SalePrice,
			"variations.$.price":         prices.Price,
			"updated_at":                 time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update variation profit fields: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewServiceError(utils.ErrCodeNotFound, "Product variation not found.")
	}

	if r.cache != nil {
		r.cache.DeletePattern(ctx, "product_*")
	}

	return nil
}

func (r *productRepository) invalidateProductCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("product_%s", id))
}
