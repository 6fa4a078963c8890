package model

import "time"

type Product struct {
	Id            int       `gorm:"primaryKey;autoIncrement"`
	Name          string    `gorm:"type:varchar(255);not null;index"`
	Price         float64   `gorm:"type:numeric(10,2);not null"`
	Currency      string    `gorm:"type:varchar(10);not null;default:'TND'"`
	Description   string    `gorm:"type:text"`
	ImageURL      string    `gorm:"column:image_url;type:text"`
	Category      string    `gorm:"type:varchar(100);index"`
	StockQuantity int       `gorm:"not null;default:0"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Product) TableName() string {
	return "products"
}
