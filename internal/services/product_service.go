package services

import (
	"context"
	"fmt"
	"math"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/cache"
	"ekuseyecom/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductListParams struct {
	Pagination        *utils.PaginationParams
	BrandSlug         string
	IncludeVariations bool
}

type UpdateProfitRequest struct {
	ID              primitive.ObjectID
	Variation       bool
	BuyPrice        *float64
	SalePrice       *float64
	DiscountPercent *float64
}

type ProductService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, params *ProductListParams) (*models.CatalogPage, error)
	UpdateProfitFields(ctx context.Context, request *UpdateProfitRequest) error
}

type productService struct {
	productRepo interfaces.ProductRepository
	cache       *cache.RedisCache
	logger      *logger.Logger
}

func NewProductService(
	productRepo interfaces.ProductRepository,
	cache *cache.RedisCache,
	logger *logger.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Profit.Validate(); err != nil {
		return utils.NewServiceError(utils.ErrCodeInvalidInput, err.Error())
	}
	for i, v := range product.Variations {
		if err := v.Profit.Validate(); err != nil {
			return utils.NewServiceError(utils.ErrCodeInvalidInput,
				fmt.Sprintf("Variation %d: %s", i+1, err.Error()))
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.invalidateListings(ctx)

	return nil
}

func (s *productService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListProducts assembles the listing page: brand filtering and search
// happen in the repository, products carrying a disabled brand are
// dropped here, and every surviving product is enriched with its
// profit fields and (optionally) variations.
func (s *productService) ListProducts(ctx context.Context, params *ProductListParams) (*models.CatalogPage, error) {
	cacheKey := fmt.Sprintf("products_p%d_s%d_q%s_b%s_v%t",
		params.Pagination.Page, params.Pagination.PageSize,
		params.Pagination.Search, params.BrandSlug, params.IncludeVariations)

	if s.cache != nil {
		var page models.CatalogPage
		if err := s.cache.Get(ctx, cacheKey, &page); err == nil {
			return &page, nil
		}
	}

	products, total, err := s.productRepo.List(ctx, &interfaces.ListProductsParams{
		Pagination: params.Pagination,
		BrandSlug:  params.BrandSlug,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(products))
	for _, product := range products {
		if product.HasDisabledBrand() {
			continue
		}
		items = append(items, s.buildCatalogItem(product, params.IncludeVariations))
	}

	page := &models.CatalogPage{
		Page:       params.Pagination.Page,
		PerPage:    params.Pagination.PageSize,
		FoundItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(params.Pagination.PageSize))),
		Count:      len(items),
		Items:      items,
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, page, utils.ProductListCacheTTL)
	}

	return page, nil
}

// UpdateProfitFields validates and stores the operator-entered cost
// figures, and syncs the derived storefront prices: regular price
// mirrors the sale price, the displayed price is the discounted one
// when a discount applies.
func (s *productService) UpdateProfitFields(ctx context.Context, request *UpdateProfitRequest) error {
	profit := models.ProfitFields{
		BuyPrice:        request.BuyPrice,
		SalePrice:       request.SalePrice,
		DiscountPercent: request.DiscountPercent,
	}

	if err := profit.Validate(); err != nil {
		return utils.NewServiceError(utils.ErrCodeInvalidInput, err.Error())
	}

	prices := derivePrices(profit)

	var err error
	if request.Variation {
		err = s.productRepo.UpdateVariationProfit(ctx, request.ID, profit, prices)
	} else {
		err = s.productRepo.UpdateProductProfit(ctx, request.ID, profit, prices)
	}
	if err != nil {
		return err
	}

	s.invalidateListings(ctx)

	return nil
}

func derivePrices(profit models.ProfitFields) models.ProductPrices {
	prices := models.ProductPrices{}

	if profit.SalePrice == nil {
		return prices
	}

	prices.RegularPrice = *profit.SalePrice
	prices.Price = *profit.SalePrice

	if profit.DiscountPercent != nil {
		discounted := profit.EffectiveSalePrice()
		rounded := utils.RoundMoney(*discounted)
		prices.SalePrice = &rounded
		prices.Price = rounded
	}

	return prices
}

func (s *productService) buildCatalogItem(product *models.Product, includeVariations bool) models.CatalogItem {
	item := models.CatalogItem{
		ID:           product.ID.Hex(),
		Type:         product.Type,
		Name:         product.Name,
		Slug:         product.Slug,
		Permalink:    product.Permalink,
		Price:        product.Price,
		PriceDisplay: utils.FormatCurrency(product.Price, utils.DefaultCurrency),
		RegularPrice: product.RegularPrice,
		SalePrice:    product.SalePrice,
		BuyPrice:     product.Profit.BuyPrice,
		NetProfit:    product.Profit.NetProfit(),
		InStock:      product.InStock(),
		StockStatus:  product.StockStatus,
		Image:        product.Image,
		Brands:       product.Brands,
		Attributes:   product.Attributes,
	}
	if item.Brands == nil {
		item.Brands = []models.Brand{}
	}
	if item.Attributes == nil {
		item.Attributes = []models.ProductAttribute{}
	}

	if includeVariations && product.Type == models.ProductTypeVariable {
		item.Variations = make([]models.CatalogVariation, 0, len(product.Variations))
		for _, v := range product.Variations {
			// Variation image falls back to the parent's.
			image := v.Image
			if image == nil {
				image = product.Image
			}

			item.Variations = append(item.Variations, models.CatalogVariation{
				ID:            v.ID.Hex(),
				SKU:           v.SKU,
				Price:         v.Price,
				PriceDisplay:  utils.FormatCurrency(v.Price, utils.DefaultCurrency),
				RegularPrice:  v.RegularPrice,
				SalePrice:     v.SalePrice,
				BuyPrice:      v.Profit.BuyPrice,
				NetProfit:     v.Profit.NetProfit(),
				InStock:       v.InStock(),
				StockStatus:   v.StockStatus,
				StockQuantity: v.StockQuantity,
				Image:         image,
				Attributes:    v.Attributes,
			})
		}
	}

	return item
}

func (s *productService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, "products_*"); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate product listing cache")
	}
}
