package dto

import "time"

type TrackInteractionRequest struct {
	ProductId       int    `json:"product_id" validate:"required,min=1"`
	InteractionType string `json:"interaction_type" validate:"required,oneof=hover click view"`
	DurationMs      *int64 `json:"duration_ms" validate:"omitempty,gte=0"`
	PageUrl         string `json:"page_url" validate:"omitempty,max=2048"`
	SessionId       string `json:"session_id" validate:"omitempty,max=128"`
}

// PublishInteractionMessage is queued by the tracking endpoint and folded
// into the visitor's totals by the consumer.
type PublishInteractionMessage struct {
	IPAddress       string    `json:"ip_address"`
	UserAgent       string    `json:"user_agent"`
	ProductId       int       `json:"product_id"`
	InteractionType string    `json:"interaction_type"`
	DurationMs      int64     `json:"duration_ms"`
	PageUrl         string    `json:"page_url,omitempty"`
	SessionId       string    `json:"session_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type TrackingStatusResponse struct {
	Status        string `json:"status"`
	UserSessionId int    `json:"user_session_id,omitempty"`
}

type VisitorReportResponse struct {
	IPAddress          string    `json:"ip_address"`
	Country            string    `json:"country"`
	City               string    `json:"city"`
	FirstVisit         time.Time `json:"first_visit"`
	LastVisit          time.Time `json:"last_visit"`
	TotalHoverTime     int64     `json:"total_hover_time"`
	TotalViews         int64     `json:"total_views"`
	TotalClicks        int64     `json:"total_clicks"`
	ProductsInteracted int64     `json:"products_interacted"`
}

type ProductEngagementResponse struct {
	ProductId      int     `json:"product_id"`
	UniqueUsers    int64   `json:"unique_users"`
	TotalHoverTime int64   `json:"total_hover_time"`
	TotalViews     int64   `json:"total_views"`
	TotalClicks    int64   `json:"total_clicks"`
	AvgHoverTime   float64 `json:"avg_hover_time"`
}

type CountryReportResponse struct {
	Country        string `json:"country"`
	UserCount      int64  `json:"user_count"`
	TotalHoverTime int64  `json:"total_hover_time"`
	TotalViews     int64  `json:"total_views"`
	TotalClicks    int64  `json:"total_clicks"`
}

type VisitorReportListResponse struct {
	Users []*VisitorReportResponse `json:"users"`
	Count int                      `json:"count"`
}

type ProductEngagementListResponse struct {
	Products []*ProductEngagementResponse `json:"products"`
	Count    int                          `json:"count"`
}

type CountryReportListResponse struct {
	Countries []*CountryReportResponse `json:"countries"`
	Count     int                      `json:"count"`
}

type GeoLocation struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// --- System Log DTOs ---

type LogListRequest struct {
	Level  string `query:"level" validate:"omitempty,oneof=debug info warn error"`
	Module string `query:"module"`
	Limit  int    `query:"limit" validate:"min=1,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

type LogListResponse struct {
	Id        string                 `json:"id"` // MD5 hash of the raw line
	Level     string                 `json:"level"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
