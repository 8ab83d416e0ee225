package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type Order struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Number        string             `json:"number" bson:"number"`
	CustomerEmail string             `json:"customer_email" bson:"customer_email"`
	Status        OrderStatus        `json:"status" bson:"status" default:"pending"`
	Currency      string             `json:"currency" bson:"currency" default:"USD"`
	Items         []OrderItem        `json:"items" bson:"items"`
	ShippingTotal float64            `json:"shipping_total" bson:"shipping_total"`
	TaxTotal      float64            `json:"tax_total" bson:"tax_total"`
	Total         float64            `json:"total" bson:"total"`
	Commission    *OrderCommission   `json:"commission,omitempty" bson:"commission,omitempty"`
	Notes         []OrderNote        `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// OrderItem is one purchased line. LineTotal is the amount actually
// charged for the line: after line-level discounts, before tax,
// shipping excluded.
type OrderItem struct {
	ProductID   primitive.ObjectID  `json:"product_id" bson:"product_id" validate:"required"`
	VariationID *primitive.ObjectID `json:"variation_id,omitempty" bson:"variation_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	SKU         string              `json:"sku,omitempty" bson:"sku,omitempty"`
	Quantity    int                 `json:"quantity" bson:"quantity" validate:"required,min=1"`
	LineTotal   float64             `json:"line_total" bson:"line_total"`
}

// CostID resolves the catalog entity whose buy price applies to this
// line: the variation when present, otherwise the parent product.
func (i *OrderItem) CostID() primitive.ObjectID {
	if i.VariationID != nil && !i.VariationID.IsZero() {
		return *i.VariationID
	}
	return i.ProductID
}

type OrderNote struct {
	Note      string    `json:"note" bson:"note"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
