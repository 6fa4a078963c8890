package contract

import (
	"context"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/specification"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindByPriceRange lists active products; a nil bound is unbounded.
	FindByPriceRange(ctx context.Context, min, max *float64, limit int) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*entity.CatalogStats, error)
}
