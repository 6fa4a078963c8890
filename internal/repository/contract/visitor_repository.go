package contract

import (
	"context"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/specification"
)

type VisitorSessionRepository interface {
	Create(ctx context.Context, session *entity.VisitorSession) error
	Update(ctx context.Context, session *entity.VisitorSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisitorSession, error)
	VisitorReport(ctx context.Context, limit int) ([]entity.VisitorReport, error)
	CountryReport(ctx context.Context) ([]entity.CountryReport, error)
}

type ProductInteractionRepository interface {
	Create(ctx context.Context, interaction *entity.ProductInteraction) error
	Update(ctx context.Context, interaction *entity.ProductInteraction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductInteraction, error)
	// EngagementReport aggregates per product; productId nil means all products.
	EngagementReport(ctx context.Context, productId *int) ([]entity.ProductEngagementReport, error)
}
