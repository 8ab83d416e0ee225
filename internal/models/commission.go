package models

import (
	"time"
)

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusClaimed CommissionStatus = "claimed"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// OrderCommission is the affiliate attribution block attached to an order.
// NetProfit, Rate and Amount are nil until first computed; once all three
// are populated they are never recomputed, even if order items change.
type OrderCommission struct {
	RefCode   string           `json:"ref_code" bson:"ref_code"`
	NetProfit *float64         `json:"net_profit,omitempty" bson:"net_profit,omitempty"`
	Rate      *float64         `json:"rate,omitempty" bson:"rate,omitempty"`
	Amount    *float64         `json:"amount,omitempty" bson:"amount,omitempty"`
	Status    CommissionStatus `json:"status" bson:"status" default:"pending"`
	ClaimedAt *time.Time       `json:"claimed_at,omitempty" bson:"claimed_at,omitempty"`
	PaidAt    *time.Time       `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

// Computed reports whether the profit figures are already frozen.
func (c *OrderCommission) Computed() bool {
	return c != nil && c.Amount != nil && c.NetProfit != nil
}

type ClaimResult struct {
	OrderID     string           `json:"order_id"`
	RefCode     string           `json:"ref_code"`
	Amount      float64          `json:"amount"`
	Status      CommissionStatus `json:"status"`
	Message     string           `json:"message"`
	APIResponse interface{}      `json:"api_response,omitempty"`
}

type MarkPaidResult struct {
	Requested int `json:"requested"`
	Changed   int `json:"changed"`
}
