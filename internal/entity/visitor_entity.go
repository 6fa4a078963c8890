package entity

import "time"

type VisitorSession struct {
	Id         int
	IPAddress  string
	Country    string
	City       string
	Region     string
	Latitude   float64
	Longitude  float64
	UserAgent  string
	GeoPayload []byte // raw geolocation response
	FirstSeen  time.Time
	LastSeen   time.Time
	VisitCount int
}

type InteractionType string

const (
	InteractionHover InteractionType = "hover"
	InteractionView  InteractionType = "view"
	InteractionClick InteractionType = "click"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionHover, InteractionView, InteractionClick:
		return true
	}
	return false
}

// ProductInteraction accumulates one visitor's engagement with one product.
type ProductInteraction struct {
	Id               int
	VisitorSessionId int
	ProductId        int
	TotalHoverTimeMs int64
	TotalViews       int
	TotalClicks      int
	LastInteraction  time.Time
}

// Record folds an event into the totals. Hover adds its duration, a view is
// counted once per visitor and product, clicks increment. It reports whether
// anything changed.
func (p *ProductInteraction) Record(kind InteractionType, durationMs int64, at time.Time) bool {
	switch kind {
	case InteractionHover:
		if durationMs <= 0 {
			return false
		}
		p.TotalHoverTimeMs += durationMs
	case InteractionView:
		if p.TotalViews > 0 {
			return false
		}
		p.TotalViews = 1
	case InteractionClick:
		p.TotalClicks++
	default:
		return false
	}
	p.LastInteraction = at
	return true
}

type VisitorReport struct {
	IPAddress           string
	Country             string
	City                string
	FirstSeen           time.Time
	LastSeen            time.Time
	TotalHoverTime      int64
	TotalViews          int64
	TotalClicks         int64
	ProductsInteracted  int64
}

type ProductEngagementReport struct {
	ProductId      int
	UniqueUsers    int64
	TotalHoverTime int64
	TotalViews     int64
	TotalClicks    int64
	AvgHoverTime   float64
}

type CountryReport struct {
	Country        string
	UserCount      int64
	TotalHoverTime int64
	TotalViews     int64
	TotalClicks    int64
}
