package models

// CatalogItem is the listing-API view of a product: catalog identity
// plus the enriched brand, attribute, variation and profit fields.
type CatalogItem struct {
	ID           string             `json:"id"`
	Type         ProductType        `json:"type"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Permalink    string             `json:"permalink"`
	Price        float64            `json:"price"`
	PriceDisplay string             `json:"price_display"`
	RegularPrice float64            `json:"regular_price"`
	SalePrice    *float64           `json:"sale_price,omitempty"`
	BuyPrice     *float64           `json:"buy_price,omitempty"`
	NetProfit    *float64           `json:"net_profit,omitempty"`
	InStock      bool               `json:"in_stock"`
	StockStatus  StockStatus        `json:"stock_status"`
	Image        *ProductImage      `json:"image,omitempty"`
	Brands       []Brand            `json:"brands"`
	Attributes   []ProductAttribute `json:"attributes"`
	Variations   []CatalogVariation `json:"variations,omitempty"`
}

type CatalogVariation struct {
	ID            string               `json:"id"`
	SKU           string               `json:"sku"`
	Price         float64              `json:"price"`
	PriceDisplay  string               `json:"price_display"`
	RegularPrice  float64              `json:"regular_price"`
	SalePrice     *float64             `json:"sale_price,omitempty"`
	BuyPrice      *float64             `json:"buy_price,omitempty"`
	NetProfit     *float64             `json:"net_profit,omitempty"`
	InStock       bool                 `json:"in_stock"`
	StockStatus   StockStatus          `json:"stock_status"`
	StockQuantity *int                 `json:"stock_quantity,omitempty"`
	Image         *ProductImage        `json:"image,omitempty"`
	Attributes    []VariationAttribute `json:"attributes"`
}

type CatalogPage struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	FoundItems int64         `json:"found_items"`
	TotalPages int           `json:"total_pages"`
	Count      int           `json:"count"`
	Items      []CatalogItem `json:"items"`
}
