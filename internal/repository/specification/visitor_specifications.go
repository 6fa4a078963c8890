package specification

import "gorm.io/gorm"

type ByIPAddress struct {
	IP string
}

func (s ByIPAddress) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ip_address = ?", s.IP)
}

type ByVisitorAndProduct struct {
	VisitorSessionId int
	ProductId        int
}

func (s ByVisitorAndProduct) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_session_id = ? AND product_id = ?", s.VisitorSessionId, s.ProductId)
}
