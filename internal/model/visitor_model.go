package model

import (
	"time"

	"gorm.io/datatypes"
)

type VisitorSession struct {
	Id         int            `gorm:"primaryKey;autoIncrement"`
	IPAddress  string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Country    string         `gorm:"type:varchar(100)"`
	City       string         `gorm:"type:varchar(100)"`
	Region     string         `gorm:"type:varchar(100)"`
	Latitude   float64
	Longitude  float64
	UserAgent  string         `gorm:"type:text"`
	GeoPayload datatypes.JSON `gorm:"type:jsonb"`
	FirstSeen  time.Time      `gorm:"autoCreateTime"`
	LastSeen   time.Time
	VisitCount int            `gorm:"not null;default:1"`
}

func (VisitorSession) TableName() string {
	return "user_sessions"
}

type ProductInteraction struct {
	Id               int   `gorm:"primaryKey;autoIncrement"`
	VisitorSessionId int   `gorm:"column:user_session_id;not null;uniqueIndex:idx_interaction_visitor_product"`
	ProductId        int   `gorm:"not null;uniqueIndex:idx_interaction_visitor_product;index"`
	TotalHoverTimeMs int64 `gorm:"not null;default:0"`
	TotalViews       int   `gorm:"not null;default:0"`
	TotalClicks      int   `gorm:"not null;default:0"`
	LastInteraction  time.Time
}

func (ProductInteraction) TableName() string {
	return "product_interactions"
}
