package mapper

import (
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type VisitorMapper struct{}

func NewVisitorMapper() *VisitorMapper {
	return &VisitorMapper{}
}

func (m *VisitorMapper) ToSessionEntity(v *model.VisitorSession) *entity.VisitorSession {
	if v == nil {
		return nil
	}
	return &entity.VisitorSession{
		Id:         v.Id,
		IPAddress:  v.IPAddress,
		Country:    v.Country,
		City:       v.City,
		Region:     v.Region,
		Latitude:   v.Latitude,
		Longitude:  v.Longitude,
		UserAgent:  v.UserAgent,
		GeoPayload: []byte(v.GeoPayload),
		FirstSeen:  v.FirstSeen,
		LastSeen:   v.LastSeen,
		VisitCount: v.VisitCount,
	}
}

func (m *VisitorMapper) ToSessionModel(v *entity.VisitorSession) *model.VisitorSession {
	if v == nil {
		return nil
	}
	var payload datatypes.JSON
	if len(v.GeoPayload) > 0 {
		payload = datatypes.JSON(v.GeoPayload)
	}
	return &model.VisitorSession{
		Id:         v.Id,
		IPAddress:  v.IPAddress,
		Country:    v.Country,
		City:       v.City,
		Region:     v.Region,
		Latitude:   v.Latitude,
		Longitude:  v.Longitude,
		UserAgent:  v.UserAgent,
		GeoPayload: payload,
		FirstSeen:  v.FirstSeen,
		LastSeen:   v.LastSeen,
		VisitCount: v.VisitCount,
	}
}

func (m *VisitorMapper) ToInteractionEntity(p *model.ProductInteraction) *entity.ProductInteraction {
	if p == nil {
		return nil
	}
	return &entity.ProductInteraction{
		Id:               p.Id,
		VisitorSessionId: p.VisitorSessionId,
		ProductId:        p.ProductId,
		TotalHoverTimeMs: p.TotalHoverTimeMs,
		TotalViews:       p.TotalViews,
		TotalClicks:      p.TotalClicks,
		LastInteraction:  p.LastInteraction,
	}
}

func (m *VisitorMapper) ToInteractionModel(p *entity.ProductInteraction) *model.ProductInteraction {
	if p == nil {
		return nil
	}
	return &model.ProductInteraction{
		Id:               p.Id,
		VisitorSessionId: p.VisitorSessionId,
		ProductId:        p.ProductId,
		TotalHoverTimeMs: p.TotalHoverTimeMs,
		TotalViews:       p.TotalViews,
		TotalClicks:      p.TotalClicks,
		LastInteraction:  p.LastInteraction,
	}
}
