package services

import (
	"context"
	"fmt"
	"time"

	"ekuseyecom/internal/config"
	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/affiliate"
	"ekuseyecom/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommissionService interface {
	// Calculator
	ComputeNetProfit(ctx context.Context, order *models.Order) (float64, error)
	ComputeCommission(netProfit float64) float64

	// Lifecycle entry points
	AttachReferral(ctx context.Context, orderID primitive.ObjectID, refCode string) error
	OnOrderFinalized(ctx context.Context, orderID primitive.ObjectID) error
	GetOrderCommission(ctx context.Context, orderID primitive.ObjectID) (*models.OrderCommission, error)
	ClaimCommission(ctx context.Context, orderID primitive.ObjectID, actor string) (*models.ClaimResult, error)
	MarkCommissionsPaid(ctx context.Context, orderIDs []primitive.ObjectID, actor string) (*models.MarkPaidResult, error)

	// Reporting
	ListCommissionOrders(ctx context.Context, status models.CommissionStatus, params *utils.PaginationParams) ([]*models.Order, int64, error)
}

type commissionService struct {
	orderRepo   interfaces.OrderRepository
	productRepo interfaces.ProductRepository
	conversion  affiliate.ConversionClient
	config      *config.AffiliateConfig
	logger      *logger.Logger
}

func NewCommissionService(
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	conversion affiliate.ConversionClient,
	config *config.AffiliateConfig,
	logger *logger.Logger,
) CommissionService {
	return &commissionService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		conversion:  conversion,
		config:      config,
		logger:      logger,
	}
}

// ComputeNetProfit sums per-line profit over the order items. A line's
// cost basis is its variation's buy price when the item references a
// variation, otherwise the parent product's; a missing buy price counts
// as zero cost. The result is floored at zero: a loss-making order
// yields zero profit and therefore zero commission.
func (s *commissionService) ComputeNetProfit(ctx context.Context, order *models.Order) (float64, error) {
	totalProfit := 0.0

	for _, item := range order.Items {
		buyPrice, found, err := s.productRepo.GetBuyPrice(ctx, item.CostID())
		if err != nil {
			return 0, fmt.Errorf("failed to resolve cost for item %q: %w", item.Name, err)
		}
		if !found {
			buyPrice = 0
		}

		costForLine := buyPrice * float64(item.Quantity)
		totalProfit += item.LineTotal - costForLine
	}

	if totalProfit < 0 {
		totalProfit = 0
	}

	return utils.RoundMoney(totalProfit), nil
}

func (s *commissionService) ComputeCommission(netProfit float64) float64 {
	return utils.RoundMoney(netProfit * s.config.CommissionRate)
}

// AttachReferral records the visitor's referral code on a freshly
// created order. Profit is not computed here; line items may not exist
// yet at order-creation time. A code already attached to the order is
// never overwritten by a later capture.
func (s *commissionService) AttachReferral(ctx context.Context, orderID primitive.ObjectID, refCode string) error {
	if refCode == "" {
		return nil
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Commission != nil && order.Commission.RefCode != "" {
		return nil
	}

	commission := &models.OrderCommission{
		RefCode: refCode,
		Status:  models.CommissionStatusPending,
	}

	if err := s.orderRepo.UpdateCommission(ctx, orderID, commission); err != nil {
		return err
	}

	s.logger.WithOrderID(orderID).WithAffiliateCode(refCode).Info("Referral attached to order")

	return nil
}

// OnOrderFinalized computes and freezes the commission figures once
// line items are committed. Safe to call from any number of checkout
// integration points: it does nothing when no referral is attached or
// when the figures are already recorded.
func (s *commissionService) OnOrderFinalized(ctx context.Context, orderID primitive.ObjectID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Commission == nil || order.Commission.RefCode == "" {
		return nil
	}
	if order.Commission.Computed() {
		return nil
	}

	commission, err := s.computeAndFreeze(ctx, order)
	if err != nil {
		return err
	}

	s.logger.LogCommissionEvent(order.ID, "commission_recorded", *commission.Amount, commission.RefCode)

	return nil
}

// GetOrderCommission is the display/read path. Orders that predate the
// feature, or whose calculation was skipped, get their figures computed
// and persisted here; orders with figures already recorded are returned
// untouched.
func (s *commissionService) GetOrderCommission(ctx context.Context, orderID primitive.ObjectID) (*models.OrderCommission, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Commission == nil || order.Commission.RefCode == "" {
		return nil, utils.NewServiceError(utils.ErrCodeNotFound, "No affiliate code found for this order.")
	}

	if order.Commission.Status == "" {
		order.Commission.Status = models.CommissionStatusPending
		if err := s.orderRepo.UpdateCommission(ctx, orderID, order.Commission); err != nil {
			return nil, err
		}
	}

	if !order.Commission.Computed() {
		return s.computeAndFreeze(ctx, order)
	}

	return order.Commission, nil
}

// ClaimCommission reports the commission to the external conversion API
// and, only on a confirmed 200/201, flips the status to claimed. Any
// failure leaves the order untouched; the operator re-triggers by hand.
func (s *commissionService) ClaimCommission(ctx context.Context, orderID primitive.ObjectID, actor string) (*models.ClaimResult, error) {
	if orderID.IsZero() {
		return nil, utils.NewServiceError(utils.ErrCodeInvalidInput, "Invalid order ID.")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Commission == nil || order.Commission.RefCode == "" {
		return nil, utils.NewServiceError(utils.ErrCodeInvalidInput, "No affiliate code found for this order.")
	}

	status := order.Commission.Status
	if status == models.CommissionStatusClaimed || status == models.CommissionStatusPaid {
		return nil, utils.NewServiceError(utils.ErrCodeAlreadyProcessed,
			fmt.Sprintf("Commission has already been %s.", status))
	}

	commission := order.Commission
	if !commission.Computed() {
		commission, err = s.computeAndFreeze(ctx, order)
		if err != nil {
			return nil, err
		}
	}

	response, err := s.conversion.ReportConversion(ctx, &affiliate.ConversionRequest{
		AffiliateCode:    commission.RefCode,
		CommissionAmount: *commission.Amount,
		OrderID:          orderID.Hex(),
	})
	if err != nil {
		s.logger.WithOrderID(orderID).WithError(err).Error("Conversion API call failed")
		return nil, utils.NewServiceError(utils.ErrCodeExternalCallFailed,
			"API call failed: "+err.Error())
	}

	if !response.Accepted() {
		body := utils.TruncateBody(string(response.Body), utils.ClaimResponseBodyLimit)
		s.logger.WithOrderID(orderID).WithField("status_code", response.StatusCode).Warn("Conversion API rejected claim")
		return nil, utils.NewServiceErrorWithDetails(utils.ErrCodeExternalCallRejected,
			fmt.Sprintf("API returned error (Code: %d): %s", response.StatusCode, body),
			map[string]string{"code": fmt.Sprintf("%d", response.StatusCode)})
	}

	now := time.Now()
	commission.Status = models.CommissionStatusClaimed
	commission.ClaimedAt = &now

	if err := s.orderRepo.UpdateCommission(ctx, orderID, commission); err != nil {
		return nil, err
	}

	amount := *commission.Amount
	note := models.OrderNote{
		Note: fmt.Sprintf("Affiliate commission of %s claimed for affiliate code: %s",
			utils.FormatCurrency(amount, order.Currency), commission.RefCode),
		Author:    actor,
		CreatedAt: now,
	}
	if err := s.orderRepo.AddNote(ctx, orderID, note); err != nil {
		s.logger.WithOrderID(orderID).WithError(err).Warn("Failed to append claim note")
	}

	s.logger.LogCommissionEvent(orderID, "commission_claimed", amount, commission.RefCode)

	return &models.ClaimResult{
		OrderID:     orderID.Hex(),
		RefCode:     commission.RefCode,
		Amount:      amount,
		Status:      commission.Status,
		Message:     "Commission claimed successfully! Amount: " + utils.FormatCurrency(amount, order.Currency),
		APIResponse: response.JSON(),
	}, nil
}

// MarkCommissionsPaid flips every selected order carrying a referral
// code to paid, regardless of its current status. Orders without a
// referral code, and ids that resolve to nothing, are skipped rather
// than failing the batch. No external call is made.
func (s *commissionService) MarkCommissionsPaid(ctx context.Context, orderIDs []primitive.ObjectID, actor string) (*models.MarkPaidResult, error) {
	result := &models.MarkPaidResult{Requested: len(orderIDs)}

	for _, orderID := range orderIDs {
		order, err := s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			if _, ok := utils.AsServiceError(err); ok {
				continue
			}
			return nil, err
		}

		if order.Commission == nil || order.Commission.RefCode == "" {
			continue
		}

		now := time.Now()
		order.Commission.Status = models.CommissionStatusPaid
		order.Commission.PaidAt = &now

		if err := s.orderRepo.UpdateCommission(ctx, orderID, order.Commission); err != nil {
			return nil, err
		}

		result.Changed++
	}

	s.logger.WithField("changed", result.Changed).WithField("actor", actor).Info("Commissions marked as paid")

	return result, nil
}

func (s *commissionService) ListCommissionOrders(ctx context.Context, status models.CommissionStatus, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.orderRepo.ListWithCommission(ctx, status, params)
}

// computeAndFreeze records netProfit, rate and amount on the order.
// Values written here are never recomputed, even if the underlying
// line items change later.
func (s *commissionService) computeAndFreeze(ctx context.Context, order *models.Order) (*models.OrderCommission, error) {
	netProfit, err := s.ComputeNetProfit(ctx, order)
	if err != nil {
		return nil, err
	}

	rate := s.config.CommissionRate
	amount := s.ComputeCommission(netProfit)

	commission := order.Commission
	if commission == nil {
		commission = &models.OrderCommission{}
	}
	commission.NetProfit = &netProfit
	commission.Rate = &rate
	commission.Amount = &amount
	if commission.Status == "" {
		commission.Status = models.CommissionStatusPending
	}

	if err := s.orderRepo.UpdateCommission(ctx, order.ID, commission); err != nil {
		return nil, err
	}

	order.Commission = commission

	return commission, nil
}
