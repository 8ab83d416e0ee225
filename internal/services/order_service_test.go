package services

import (
	"context"
	"strings"
	"testing"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestOrderService(t *testing.T, orderRepo *fakeOrderRepo, productRepo *fakeProductRepo) OrderService {
	t.Helper()
	commission := newTestCommissionService(t, orderRepo, productRepo, nil)
	return NewOrderService(orderRepo, commission, utils.DefaultCurrency, testLogger(t))
}

func TestCreateOrder(t *testing.T) {
	productID := primitive.NewObjectID()

	t.Run("referred order gets a frozen commission", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		productRepo := newFakeProductRepo()
		productRepo.buyPrices[productID] = 30

		svc := newTestOrderService(t, orderRepo, productRepo)

		order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerEmail: "buyer@example.com",
			Items: []models.OrderItem{
				{ProductID: productID, Name: "Gadget", Quantity: 2, LineTotal: 100},
			},
			ShippingTotal: 5,
			TaxTotal:      2.5,
			RefCode:       "partner42",
		})
		require.NoError(t, err)

		assert.Equal(t, 107.5, order.Total)
		assert.Equal(t, models.OrderStatusProcessing, order.Status)
		assert.True(t, strings.HasPrefix(order.Number, "EK-"))

		require.NotNil(t, order.Commission)
		assert.Equal(t, "partner42", order.Commission.RefCode)
		require.True(t, order.Commission.Computed())
		// 100 - 30*2 = 40 profit, 30% commission
		assert.Equal(t, 40.0, *order.Commission.NetProfit)
		assert.Equal(t, 12.0, *order.Commission.Amount)
		assert.Equal(t, models.CommissionStatusPending, order.Commission.Status)
	})

	t.Run("unreferred order carries no commission", func(t *testing.T) {
		svc := newTestOrderService(t, newFakeOrderRepo(), newFakeProductRepo())

		order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerEmail: "buyer@example.com",
			Items: []models.OrderItem{
				{ProductID: productID, Quantity: 1, LineTotal: 10},
			},
		})
		require.NoError(t, err)
		assert.Nil(t, order.Commission)
		assert.Equal(t, utils.DefaultCurrency, order.Currency)
	})

	t.Run("configured default currency applies when the request has none", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		commission := newTestCommissionService(t, orderRepo, newFakeProductRepo(), nil)
		svc := NewOrderService(orderRepo, commission, "BDT", testLogger(t))

		order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerEmail: "buyer@example.com",
			Items: []models.OrderItem{
				{ProductID: productID, Quantity: 1, LineTotal: 10},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "BDT", order.Currency)
	})

	t.Run("empty order is rejected", func(t *testing.T) {
		svc := newTestOrderService(t, newFakeOrderRepo(), newFakeProductRepo())

		_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerEmail: "buyer@example.com",
		})
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeInvalidInput, svcErr.Code)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		svc := newTestOrderService(t, newFakeOrderRepo(), newFakeProductRepo())

		_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerEmail: "buyer@example.com",
			Items: []models.OrderItem{
				{ProductID: productID, Quantity: 0, LineTotal: 10},
			},
		})
		svcErr, ok := utils.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, utils.ErrCodeInvalidInput, svcErr.Code)
	})
}
