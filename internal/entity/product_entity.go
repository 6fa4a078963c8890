package entity

import "time"

type Product struct {
	Id            int
	Name          string
	Price         float64
	Currency      string
	Description   string
	ImageURL      string
	Category      string
	StockQuantity int
	IsActive      bool
	CreatedAt     time.Time
}

type CategoryStats struct {
	Category string
	Count    int64
	AvgPrice float64
}

type CatalogStats struct {
	TotalProducts   int64
	TotalCategories int64
	MinPrice        float64
	MaxPrice        float64
	AvgPrice        float64
	TotalStock      int64
	Categories      []CategoryStats
}
