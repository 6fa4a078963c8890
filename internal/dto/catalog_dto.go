package dto

import "time"

type ProductResponse struct {
	Id            int       `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	Category      string    `json:"category"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	Count    int                `json:"count"`
}

type ListProductsRequest struct {
	Category string `query:"category"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
	Offset   int    `query:"offset" validate:"min=0"`
}

type SearchProductsRequest struct {
	Query string `query:"q" validate:"required,min=1"`
	Limit int    `query:"limit" validate:"min=1,max=50"`
}

type PriceRangeRequest struct {
	MinPrice *float64 `validate:"omitempty,gte=0"`
	MaxPrice *float64 `validate:"omitempty,gte=0"`
	Limit    int      `query:"limit" validate:"min=1,max=100"`
}

type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type CategoryStatsResponse struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

type CatalogStatsResponse struct {
	TotalProducts   int64                   `json:"total_products"`
	TotalCategories int64                   `json:"total_categories"`
	TotalStock      int64                   `json:"total_stock"`
	PriceRange      PriceRange              `json:"price_range"`
	Categories      []CategoryStatsResponse `json:"categories"`
}

type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
