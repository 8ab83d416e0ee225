package services

import (
	"context"
	"strings"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateOrderRequest struct {
	CustomerEmail string
	Currency      string
	Items         []models.OrderItem
	ShippingTotal float64
	TaxTotal      float64

	// RefCode is the visitor's referral attribution at checkout time,
	// read from the tracking cookie. Empty when the visitor was not
	// referred.
	RefCode string
}

type OrderService interface {
	CreateOrder(ctx context.Context, request *CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

type orderService struct {
	orderRepo       interfaces.OrderRepository
	commission      CommissionService
	defaultCurrency string
	logger          *logger.Logger
}

func NewOrderService(
	orderRepo interfaces.OrderRepository,
	commission CommissionService,
	defaultCurrency string,
	logger *logger.Logger,
) OrderService {
	if defaultCurrency == "" {
		defaultCurrency = utils.DefaultCurrency
	}
	return &orderService{
		orderRepo:       orderRepo,
		commission:      commission,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// CreateOrder persists the order and runs the single commission
// integration point: the referral is attached first, then the finalize
// step computes the figures now that line items are committed.
func (s *orderService) CreateOrder(ctx context.Context, request *CreateOrderRequest) (*models.Order, error) {
	if len(request.Items) == 0 {
		return nil, utils.NewServiceError(utils.ErrCodeInvalidInput, "Order must contain at least one item.")
	}
	for _, item := range request.Items {
		if item.Quantity < 1 {
			return nil, utils.NewServiceError(utils.ErrCodeInvalidInput, "Item quantity must be at least 1.")
		}
		if item.ProductID.IsZero() {
			return nil, utils.NewServiceError(utils.ErrCodeInvalidInput, "Item is missing a product reference.")
		}
	}

	currency := request.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	itemsTotal := 0.0
	for _, item := range request.Items {
		itemsTotal += item.LineTotal
	}

	order := &models.Order{
		Number:        newOrderNumber(),
		CustomerEmail: request.CustomerEmail,
		Status:        models.OrderStatusProcessing,
		Currency:      currency,
		Items:         request.Items,
		ShippingTotal: request.ShippingTotal,
		TaxTotal:      request.TaxTotal,
		Total:         utils.RoundMoney(itemsTotal + request.ShippingTotal + request.TaxTotal),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if request.RefCode != "" {
		if err := s.commission.AttachReferral(ctx, order.ID, request.RefCode); err != nil {
			return nil, err
		}
		if err := s.commission.OnOrderFinalized(ctx, order.ID); err != nil {
			return nil, err
		}
	}

	s.logger.WithOrderID(order.ID).WithField("number", order.Number).Info("Order created")

	return s.orderRepo.GetByID(ctx, order.ID)
}

func (s *orderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func newOrderNumber() string {
	return "EK-" + strings.ToUpper(uuid.NewString()[:8])
}
