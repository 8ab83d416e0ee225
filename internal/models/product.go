package models

import (
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
)

type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

type Product struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type         ProductType        `json:"type" bson:"type" default:"simple"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Slug         string             `json:"slug" bson:"slug"`
	Permalink    string             `json:"permalink" bson:"permalink"`
	Price        float64            `json:"price" bson:"price"`
	RegularPrice float64            `json:"regular_price" bson:"regular_price"`
	SalePrice    *float64           `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	StockStatus  StockStatus        `json:"stock_status" bson:"stock_status" default:"instock"`
	Image        *ProductImage      `json:"image,omitempty" bson:"image,omitempty"`
	Brands       []Brand            `json:"brands" bson:"brands"`
	Attributes   []ProductAttribute `json:"attributes" bson:"attributes"`
	Variations   []ProductVariation `json:"variations,omitempty" bson:"variations,omitempty"`
	Profit       ProfitFields       `json:"profit" bson:"profit"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.StockStatus == StockStatusInStock
}

// HasDisabledBrand reports whether any brand term attached to the
// product is disabled. Such products are excluded from listings.
func (p *Product) HasDisabledBrand() bool {
	for _, b := range p.Brands {
		if b.Disabled {
			return true
		}
	}
	return false
}

type ProductVariation struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	SKU           string               `json:"sku" bson:"sku"`
	Price         float64              `json:"price" bson:"price"`
	RegularPrice  float64              `json:"regular_price" bson:"regular_price"`
	SalePrice     *float64             `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	StockStatus   StockStatus          `json:"stock_status" bson:"stock_status" default:"instock"`
	StockQuantity *int                 `json:"stock_quantity,omitempty" bson:"stock_quantity,omitempty"`
	Image         *ProductImage        `json:"image,omitempty" bson:"image,omitempty"`
	Attributes    []VariationAttribute `json:"attributes" bson:"attributes"`
	Profit        ProfitFields         `json:"profit" bson:"profit"`
}

func (v *ProductVariation) InStock() bool {
	return v.StockStatus == StockStatusInStock
}

type ProductImage struct {
	ID  primitive.ObjectID `json:"id" bson:"id"`
	URL string             `json:"url" bson:"url"`
	Alt string             `json:"alt,omitempty" bson:"alt,omitempty"`
}

type Brand struct {
	ID       primitive.ObjectID `json:"id" bson:"id"`
	Name     string             `json:"name" bson:"name"`
	Slug     string             `json:"slug" bson:"slug"`
	Disabled bool               `json:"-" bson:"disabled"`
}

type ProductAttribute struct {
	Name      string   `json:"name" bson:"name"`
	Label     string   `json:"label" bson:"label"`
	Variation bool     `json:"variation" bson:"variation"`
	Visible   bool     `json:"visible" bson:"visible"`
	Options   []string `json:"options" bson:"options"`
}

type VariationAttribute struct {
	Key   string `json:"key" bson:"key"`
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// ProductPrices are the storefront price fields derived from the
// profit fields on save: regular price mirrors the operator sale
// price, the displayed price is the discounted one when a discount
// applies.
type ProductPrices struct {
	RegularPrice float64  `json:"regular_price" bson:"regular_price"`
	SalePrice    *float64 `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	Price        float64  `json:"price" bson:"price"`
}

// ProfitFields are the operator-entered cost figures kept per product
// and per variation. All three are optional; NetProfit is derived and
// never stored.
type ProfitFields struct {
	BuyPrice        *float64 `json:"buy_price,omitempty" bson:"buy_price,omitempty"`
	SalePrice       *float64 `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" bson:"discount_percent,omitempty"`
}

// EffectiveSalePrice applies the discount to the sale price. The
// discount is clamped to 0..100.
func (f ProfitFields) EffectiveSalePrice() *float64 {
	if f.SalePrice == nil {
		return nil
	}
	sale := *f.SalePrice
	if f.DiscountPercent != nil {
		discount := *f.DiscountPercent
		if discount < 0 {
			discount = 0
		}
		if discount > 100 {
			discount = 100
		}
		sale = sale * (1 - discount/100)
	}
	return &sale
}

// NetProfit is effective sale price minus buy price, or nil when
// either side is unset.
func (f ProfitFields) NetProfit() *float64 {
	if f.BuyPrice == nil {
		return nil
	}
	sale := f.EffectiveSalePrice()
	if sale == nil {
		return nil
	}
	profit := *sale - *f.BuyPrice
	return &profit
}

// NetProfitDisplay renders the derived profit with two decimals, or
// "--" when it cannot be computed.
func (f ProfitFields) NetProfitDisplay() string {
	profit := f.NetProfit()
	if profit == nil {
		return "--"
	}
	return strconv.FormatFloat(*profit, 'f', 2, 64)
}

func (f ProfitFields) Validate() error {
	if f.BuyPrice != nil && f.SalePrice != nil && *f.SalePrice < *f.BuyPrice {
		return fmt.Errorf("sale price must be greater than or equal to buy price")
	}
	return nil
}
