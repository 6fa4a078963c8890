package implementation

import (
	"context"
	"errors"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/mapper"
	"cloess-chatbot-be/internal/model"
	"cloess-chatbot-be/internal/repository/contract"
	"cloess-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductRepositoryImpl) FindByPriceRange(ctx context.Context, min, max *float64, limit int) ([]*entity.Product, error) {
	specs := []specification.Specification{specification.ActiveProducts{}}
	if min != nil {
		specs = append(specs, specification.PriceAtLeast{Min: *min})
	}
	if max != nil {
		specs = append(specs, specification.PriceAtMost{Max: *max})
	}
	specs = append(specs,
		specification.OrderBy{Field: "price"},
		specification.Pagination{Limit: limit},
	)
	return r.FindAll(ctx, specs...)
}

func (r *ProductRepositoryImpl) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("is_active = ? AND category IS NOT NULL AND category <> ''", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

type catalogTotalsRow struct {
	TotalProducts   int64
	TotalCategories int64
	MinPrice        float64
	MaxPrice        float64
	AvgPrice        float64
	TotalStock      int64
}

type categoryStatsRow struct {
	Category string
	Count    int64
	AvgPrice float64
}

func (r *ProductRepositoryImpl) Stats(ctx context.Context) (*entity.CatalogStats, error) {
	db := r.db.WithContext(ctx)

	var totals catalogTotalsRow
	err := db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select(`COUNT(*) AS total_products,
			COUNT(DISTINCT category) AS total_categories,
			COALESCE(MIN(price), 0) AS min_price,
			COALESCE(MAX(price), 0) AS max_price,
			COALESCE(AVG(price), 0) AS avg_price,
			COALESCE(SUM(stock_quantity), 0) AS total_stock`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var rows []categoryStatsRow
	err = db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("category, COUNT(*) AS count, COALESCE(AVG(price), 0) AS avg_price").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &entity.CatalogStats{
		TotalProducts:   totals.TotalProducts,
		TotalCategories: totals.TotalCategories,
		MinPrice:        totals.MinPrice,
		MaxPrice:        totals.MaxPrice,
		AvgPrice:        totals.AvgPrice,
		TotalStock:      totals.TotalStock,
		Categories:      make([]entity.CategoryStats, len(rows)),
	}
	for i, row := range rows {
		stats.Categories[i] = entity.CategoryStats(row)
	}
	return stats, nil
}
