package services

import (
	"context"
	"errors"
	"testing"

	"ekuseyecom/internal/config"
	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/affiliate"
	"ekuseyecom/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order
	notes  map[primitive.ObjectID][]models.OrderNote
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders: make(map[primitive.ObjectID]*models.Order),
		notes:  make(map[primitive.ObjectID][]models.OrderNote),
	}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, utils.NewServiceError(utils.ErrCodeNotFound, "Order not found")
	}
	copied := *order
	if order.Commission != nil {
		commission := *order.Commission
		copied.Commission = &commission
	}
	return &copied, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeOrderRepo) UpdateCommission(ctx context.Context, id primitive.ObjectID, commission *models.OrderCommission) error {
	order, ok := r.orders[id]
	if !ok {
		return utils.NewServiceError(utils.ErrCodeNotFound, "Order not found")
	}
	copied := *commission
	order.Commission = &copied
	return nil
}

func (r *fakeOrderRepo) ListWithCommission(ctx context.Context, status models.CommissionStatus, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.Commission == nil || o.Commission.RefCode == "" {
			continue
		}
		if status != "" && o.Commission.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) AddNote(ctx context.Context, id primitive.ObjectID, note models.OrderNote) error {
	r.notes[id] = append(r.notes[id], note)
	return nil
}

type fakeProductRepo struct {
	buyPrices map[primitive.ObjectID]float64
	products  map[primitive.ObjectID]*models.Product
	listed    []*models.Product

	productProfit   map[primitive.ObjectID]models.ProfitFields
	productPrices   map[primitive.ObjectID]models.ProductPrices
	variationProfit map[primitive.ObjectID]models.ProfitFields
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		buyPrices:       make(map[primitive.ObjectID]float64),
		products:        make(map[primitive.ObjectID]*models.Product),
		productProfit:   make(map[primitive.ObjectID]models.ProfitFields),
		productPrices:   make(map[primitive.ObjectID]models.ProductPrices),
		variationProfit: make(map[primitive.ObjectID]models.ProfitFields),
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, utils.NewServiceError(utils.ErrCodeNotFound, "Product not found")
	}
	return product, nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *interfaces.ListProductsParams) ([]*models.Product, int64, error) {
	return r.listed, int64(len(r.listed)), nil
}

func (r *fakeProductRepo) GetBuyPrice(ctx context.Context, id primitive.ObjectID) (float64, bool, error) {
	price, ok := r.buyPrices[id]
	return price, ok, nil
}

func (r *fakeProductRepo) UpdateProductProfit(ctx context.Context, productID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error {
	r.productProfit[productID] = profit
	r.productPrices[productID] = prices
	return nil
}

func (r *fakeProductRepo) UpdateVariationProfit(ctx context.Context, variationID primitive.ObjectID, profit models.ProfitFields, prices models.ProductPrices) error {
	r.variationProfit[variationID] = profit
	return nil
}

type fakeConversionClient struct {
	response *affiliate.ConversionResponse
	err      error
	requests []*affiliate.ConversionRequest
}

func (c *fakeConversionClient) ReportConversion(ctx context.Context, request *affiliate.ConversionRequest) (*affiliate.ConversionResponse, error) {
	c.requests = append(c.requests, request)
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)
	return log
}

func testAffiliateConfig() *config.AffiliateConfig {
	return &config.AffiliateConfig{
		CommissionRate: 0.30,
		CookieName:     utils.ReferralCookieName,
		CookieTTL:      utils.ReferralCookieTTL,
	}
}

func newTestCommissionService(t *testing.T, orderRepo *fakeOrderRepo, productRepo *fakeProductRepo, conversion *fakeConversionClient) CommissionService {
	t.Helper()
	if conversion == nil {
		conversion = &fakeConversionClient{response: &affiliate.ConversionResponse{StatusCode: 200, Body: []byte(`{"ok":true}`)}}
	}
	return NewCommissionService(orderRepo, productRepo, conversion, testAffiliateConfig(), testLogger(t))
}

func floatPtr(v float64) *float64 { return &v }

func TestComputeNetProfit(t *testing.T) {
	productID := primitive.NewObjectID()
	variationID := primitive.NewObjectID()
	unknownID := primitive.NewObjectID()

	productRepo := newFakeProductRepo()
	productRepo.buyPrices[productID] = 40
	productRepo.buyPrices[variationID] = 10

	svc := newTestCommissionService(t, newFakeOrderRepo(), productRepo, nil)

	t.Run("sums per line profit", func(t *testing.T) {
		order := &models.Order{Items: []models.OrderItem{
			{ProductID: productID, Quantity: 2, LineTotal: 100},
			{ProductID: primitive.NewObjectID(), VariationID: &variationID, Quantity: 1, LineTotal: 25},
		}}

		profit, err := svc.ComputeNetProfit(context.Background(), order)
		require.NoError(t, err)
		// (100 - 40*2) + (25 - 10*1)
		assert.Equal(t, 35.0, profit)
	})

	t.Run("missing buy price counts as zero cost", func(t *testing.T) {
		order := &models.Order{Items: []models.OrderItem{
			{ProductID: unknownID, Quantity: 3, LineTotal: 60},
		}}

		profit, err := svc.ComputeNetProfit(context.Background(), order)
		require.NoError(t, err)
		assert.Equal(t, 60.0, profit)
	})

	t.Run("loss making order floors at zero", func(t *testing.T) {
		order := &models.Order{Items: []models.OrderItem{
			{ProductID: productID, Quantity: 2, LineTotal: 50},
		}}

		profit, err := svc.ComputeNetProfit(context.Background(), order)
		require.NoError(t, err)
		assert.Equal(t, 0.0, profit)
	})

	t.Run("empty order yields zero", func(t *testing.T) {
		profit, err := svc.ComputeNetProfit(context.Background(), &models.Order{})
		require.NoError(t, err)
		assert.Equal(t, 0.0, profit)
	})
}

func TestComputeCommission(t *testing.T) {
	svc := newTestCommissionService(t, newFakeOrderRepo(), newFakeProductRepo(), nil)

	assert.Equal(t, 30.0, svc.ComputeCommission(100))
	assert.Equal(t, 0.0, svc.ComputeCommission(0))
	assert.Equal(t, 3.33, svc.ComputeCommission(11.1))
}

func TestAttachReferral(t *testing.T) {
	t.Run("attaches code with pending status", func(t *testing.T) {
		order := &models.Order{ID: primitive.NewObjectID()}
		orderRepo := newFakeOrderRepo(order)
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)

		require.NoError(t, svc.AttachReferral(context.Background(), order.ID, "partner42"))

		stored := orderRepo.orders[order.ID].Commission
		require.NotNil(t, stored)
		assert.Equal(t, "partner42", stored.RefCode)
		assert.Equal(t, models.CommissionStatusPending, stored.Status)
		assert.Nil(t, stored.Amount)
	})

	t.Run("empty code is a no-op", func(t *testing.T) {
		order := &models.Order{ID: primitive.NewObjectID()}
		orderRepo := newFakeOrderRepo(order)
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)

		require.NoError(t, svc.AttachReferral(context.Background(), order.ID, ""))
		assert.Nil(t, orderRepo.orders[order.ID].Commission)
	})

	t.Run("existing code is never overwritten", func(t *testing.T) {
		order := &models.Order{
			ID:         primitive.NewObjectID(),
			Commission: &models.OrderCommission{RefCode: "first", Status: models.CommissionStatusPending},
		}
		orderRepo := newFakeOrderRepo(order)
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)

		require.NoError(t, svc.AttachReferral(context.Background(), order.ID, "second"))
		assert.Equal(t, "first", orderRepo.orders[order.ID].Commission.RefCode)
	})
}

func TestOnOrderFinalized(t *testing.T) {
	productID := primitive.NewObjectID()

	newOrder := func() *models.Order {
		return &models.Order{
			ID:       primitive.NewObjectID(),
			Currency: "USD",
			Items: []models.OrderItem{
				{ProductID: productID, Quantity: 1, LineTotal: 100},
			},
			Commission: &models.OrderCommission{RefCode: "partner42", Status: models.CommissionStatusPending},
		}
	}

	t.Run("freezes figures once", func(t *testing.T) {
		order := newOrder()
		orderRepo := newFakeOrderRepo(order)
		productRepo := newFakeProductRepo()
		productRepo.buyPrices[productID] = 60
		svc := newTestCommissionService(t, orderRepo, productRepo, nil)

		require.NoError(t, svc.OnOrderFinalized(context.Background(), order.ID))

		stored := orderRepo.orders[order.ID].Commission
		require.True(t, stored.Computed())
		assert.Equal(t, 40.0, *stored.NetProfit)
		assert.Equal(t, 0.30, *stored.Rate)
		assert.Equal(t, 12.0, *stored.Amount)

		// A later cost change must not alter the frozen figures.
		productRepo.buyPrices[productID] = 10
		require.NoError(t, svc.OnOrderFinalized(context.Background(), order.ID))
		assert.Equal(t, 12.0, *orderRepo.orders[order.ID].Commission.Amount)
	})

	t.Run("no referral means nothing recorded", func(t *testing.T) {
		order := newOrder()
		order.Commission = nil
		orderRepo := newFakeOrderRepo(order)
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)

		require.NoError(t, svc.OnOrderFinalized(context.Background(), order.ID))
		assert.Nil(t, orderRepo.orders[order.ID].Commission)
	})
}

func TestGetOrderCommission(t *testing.T) {
	productID := primitive.NewObjectID()

	t.Run("order without referral is not found", func(t *testing.T) {
		order := &models.Order{ID: primitive.NewObjectID()}
		svc := newTestCommissionService(t, newFakeOrderRepo(order), newFakeProductRepo(), nil)

		_, err := svc.GetOrderCommission(context.Background(), order.ID)
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeNotFound, svcErr.Code)
		assert.Equal(t, "No affiliate code found for this order.", svcErr.Message)
	})

	t.Run("computes and persists missing figures", func(t *testing.T) {
		order := &models.Order{
			ID:         primitive.NewObjectID(),
			Items:      []models.OrderItem{{ProductID: productID, Quantity: 1, LineTotal: 80}},
			Commission: &models.OrderCommission{RefCode: "partner42"},
		}
		orderRepo := newFakeOrderRepo(order)
		productRepo := newFakeProductRepo()
		productRepo.buyPrices[productID] = 30
		svc := newTestCommissionService(t, orderRepo, productRepo, nil)

		commission, err := svc.GetOrderCommission(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, *commission.NetProfit)
		assert.Equal(t, 15.0, *commission.Amount)
		assert.Equal(t, models.CommissionStatusPending, commission.Status)

		assert.True(t, orderRepo.orders[order.ID].Commission.Computed())
	})

	t.Run("frozen figures are returned untouched", func(t *testing.T) {
		order := &models.Order{
			ID:    primitive.NewObjectID(),
			Items: []models.OrderItem{{ProductID: productID, Quantity: 1, LineTotal: 80}},
			Commission: &models.OrderCommission{
				RefCode:   "partner42",
				NetProfit: floatPtr(99),
				Rate:      floatPtr(0.30),
				Amount:    floatPtr(29.7),
				Status:    models.CommissionStatusClaimed,
			},
		}
		svc := newTestCommissionService(t, newFakeOrderRepo(order), newFakeProductRepo(), nil)

		commission, err := svc.GetOrderCommission(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 99.0, *commission.NetProfit)
		assert.Equal(t, models.CommissionStatusClaimed, commission.Status)
	})
}

func TestClaimCommission(t *testing.T) {
	productID := primitive.NewObjectID()

	newOrder := func(status models.CommissionStatus) *models.Order {
		return &models.Order{
			ID:       primitive.NewObjectID(),
			Currency: "USD",
			Items:    []models.OrderItem{{ProductID: productID, Quantity: 1, LineTotal: 100}},
			Commission: &models.OrderCommission{
				RefCode:   "partner42",
				NetProfit: floatPtr(40),
				Rate:      floatPtr(0.30),
				Amount:    floatPtr(12),
				Status:    status,
			},
		}
	}

	t.Run("successful claim flips status and records a note", func(t *testing.T) {
		order := newOrder(models.CommissionStatusPending)
		orderRepo := newFakeOrderRepo(order)
		conversion := &fakeConversionClient{response: &affiliate.ConversionResponse{StatusCode: 200, Body: []byte(`{"conversion_id":"abc"}`)}}
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), conversion)

		result, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		require.NoError(t, err)

		assert.Equal(t, models.CommissionStatusClaimed, result.Status)
		assert.Equal(t, 12.0, result.Amount)
		assert.Contains(t, result.Message, "$12.00")

		stored := orderRepo.orders[order.ID].Commission
		assert.Equal(t, models.CommissionStatusClaimed, stored.Status)
		assert.NotNil(t, stored.ClaimedAt)

		require.Len(t, conversion.requests, 1)
		assert.Equal(t, "partner42", conversion.requests[0].AffiliateCode)
		assert.Equal(t, 12.0, conversion.requests[0].CommissionAmount)

		require.Len(t, orderRepo.notes[order.ID], 1)
		assert.Contains(t, orderRepo.notes[order.ID][0].Note, "partner42")
	})

	t.Run("already claimed is rejected", func(t *testing.T) {
		order := newOrder(models.CommissionStatusClaimed)
		svc := newTestCommissionService(t, newFakeOrderRepo(order), newFakeProductRepo(), nil)

		_, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeAlreadyProcessed, svcErr.Code)
		assert.Equal(t, "Commission has already been claimed.", svcErr.Message)
	})

	t.Run("already paid is rejected", func(t *testing.T) {
		order := newOrder(models.CommissionStatusPaid)
		svc := newTestCommissionService(t, newFakeOrderRepo(order), newFakeProductRepo(), nil)

		_, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeAlreadyProcessed, svcErr.Code)
		assert.Equal(t, "Commission has already been paid.", svcErr.Message)
	})

	t.Run("transport failure leaves order pending", func(t *testing.T) {
		order := newOrder(models.CommissionStatusPending)
		orderRepo := newFakeOrderRepo(order)
		conversion := &fakeConversionClient{err: errors.New("connection refused")}
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), conversion)

		_, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeExternalCallFailed, svcErr.Code)
		assert.Contains(t, svcErr.Message, "API call failed: ")

		assert.Equal(t, models.CommissionStatusPending, orderRepo.orders[order.ID].Commission.Status)
	})

	t.Run("rejected response reports code and truncated body", func(t *testing.T) {
		order := newOrder(models.CommissionStatusPending)
		orderRepo := newFakeOrderRepo(order)

		longBody := make([]byte, 300)
		for i := range longBody {
			longBody[i] = 'x'
		}
		conversion := &fakeConversionClient{response: &affiliate.ConversionResponse{StatusCode: 500, Body: longBody}}
		svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), conversion)

		_, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeExternalCallRejected, svcErr.Code)
		assert.Contains(t, svcErr.Message, "API returned error (Code: 500): ")
		assert.Equal(t, "500", svcErr.Details["code"])
		assert.LessOrEqual(t, len(svcErr.Message), len("API returned error (Code: 500): ")+utils.ClaimResponseBodyLimit)

		assert.Equal(t, models.CommissionStatusPending, orderRepo.orders[order.ID].Commission.Status)
	})

	t.Run("uncomputed figures are computed before the call", func(t *testing.T) {
		order := newOrder(models.CommissionStatusPending)
		order.Commission.NetProfit = nil
		order.Commission.Rate = nil
		order.Commission.Amount = nil

		orderRepo := newFakeOrderRepo(order)
		productRepo := newFakeProductRepo()
		productRepo.buyPrices[productID] = 50
		conversion := &fakeConversionClient{response: &affiliate.ConversionResponse{StatusCode: 201, Body: []byte(`{}`)}}
		svc := newTestCommissionService(t, orderRepo, productRepo, conversion)

		result, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		require.NoError(t, err)
		assert.Equal(t, 15.0, result.Amount)
		require.Len(t, conversion.requests, 1)
		assert.Equal(t, 15.0, conversion.requests[0].CommissionAmount)
	})

	t.Run("order without referral is invalid input", func(t *testing.T) {
		order := &models.Order{ID: primitive.NewObjectID()}
		svc := newTestCommissionService(t, newFakeOrderRepo(order), newFakeProductRepo(), nil)

		_, err := svc.ClaimCommission(context.Background(), order.ID, "operator-1")
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeInvalidInput, svcErr.Code)
	})
}

func TestMarkCommissionsPaid(t *testing.T) {
	withRef := &models.Order{
		ID:         primitive.NewObjectID(),
		Commission: &models.OrderCommission{RefCode: "partner42", Status: models.CommissionStatusPending},
	}
	claimed := &models.Order{
		ID:         primitive.NewObjectID(),
		Commission: &models.OrderCommission{RefCode: "partner7", Status: models.CommissionStatusClaimed},
	}
	withoutRef := &models.Order{ID: primitive.NewObjectID()}
	missingID := primitive.NewObjectID()

	orderRepo := newFakeOrderRepo(withRef, claimed, withoutRef)
	svc := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)

	result, err := svc.MarkCommissionsPaid(context.Background(),
		[]primitive.ObjectID{withRef.ID, claimed.ID, withoutRef.ID, missingID}, "operator-1")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Requested)
	assert.Equal(t, 2, result.Changed)

	assert.Equal(t, models.CommissionStatusPaid, orderRepo.orders[withRef.ID].Commission.Status)
	assert.NotNil(t, orderRepo.orders[withRef.ID].Commission.PaidAt)
	assert.Equal(t, models.CommissionStatusPaid, orderRepo.orders[claimed.ID].Commission.Status)
	assert.Nil(t, orderRepo.orders[withoutRef.ID].Commission)
}
