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

type VisitorSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VisitorMapper
}

func NewVisitorSessionRepository(db *gorm.DB) contract.VisitorSessionRepository {
	return &VisitorSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewVisitorMapper(),
	}
}

func (r *VisitorSessionRepositoryImpl) Create(ctx context.Context, session *entity.VisitorSession) error {
	m := r.mapper.ToSessionModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToSessionEntity(m)
	return nil
}

func (r *VisitorSessionRepositoryImpl) Update(ctx context.Context, session *entity.VisitorSession) error {
	m := r.mapper.ToSessionModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToSessionEntity(m)
	return nil
}

func (r *VisitorSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisitorSession, error) {
	var m model.VisitorSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToSessionEntity(&m), nil
}

func (r *VisitorSessionRepositoryImpl) VisitorReport(ctx context.Context, limit int) ([]entity.VisitorReport, error) {
	var rows []entity.VisitorReport
	err := r.db.WithContext(ctx).
		Table("user_sessions AS us").
		Select(`us.ip_address, us.country, us.city, us.first_seen, us.last_seen,
			COALESCE(SUM(pi.total_hover_time_ms), 0) AS total_hover_time,
			COALESCE(SUM(pi.total_views), 0) AS total_views,
			COALESCE(SUM(pi.total_clicks), 0) AS total_clicks,
			COUNT(DISTINCT pi.product_id) AS products_interacted`).
		Joins("LEFT JOIN product_interactions pi ON us.id = pi.user_session_id").
		Group("us.id, us.ip_address, us.country, us.city, us.first_seen, us.last_seen").
		Order("us.last_seen DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VisitorSessionRepositoryImpl) CountryReport(ctx context.Context) ([]entity.CountryReport, error) {
	var rows []entity.CountryReport
	err := r.db.WithContext(ctx).
		Table("user_sessions AS us").
		Select(`us.country,
			COUNT(DISTINCT us.id) AS user_count,
			COALESCE(SUM(pi.total_hover_time_ms), 0) AS total_hover_time,
			COALESCE(SUM(pi.total_views), 0) AS total_views,
			COALESCE(SUM(pi.total_clicks), 0) AS total_clicks`).
		Joins("LEFT JOIN product_interactions pi ON us.id = pi.user_session_id").
		Where("us.country IS NOT NULL AND us.country <> ?", "Unknown").
		Group("us.country").
		Order("user_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type ProductInteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VisitorMapper
}

func NewProductInteractionRepository(db *gorm.DB) contract.ProductInteractionRepository {
	return &ProductInteractionRepositoryImpl{
		db:     db,
		mapper: mapper.NewVisitorMapper(),
	}
}

func (r *ProductInteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.ProductInteraction) error {
	m := r.mapper.ToInteractionModel(interaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*interaction = *r.mapper.ToInteractionEntity(m)
	return nil
}

func (r *ProductInteractionRepositoryImpl) Update(ctx context.Context, interaction *entity.ProductInteraction) error {
	m := r.mapper.ToInteractionModel(interaction)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ProductInteractionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductInteraction, error) {
	var m model.ProductInteraction
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToInteractionEntity(&m), nil
}

func (r *ProductInteractionRepositoryImpl) EngagementReport(ctx context.Context, productId *int) ([]entity.ProductEngagementReport, error) {
	var rows []entity.ProductEngagementReport
	query := r.db.WithContext(ctx).
		Model(&model.ProductInteraction{}).
		Select(`product_id,
			COUNT(DISTINCT user_session_id) AS unique_users,
			COALESCE(SUM(total_hover_time_ms), 0) AS total_hover_time,
			COALESCE(SUM(total_views), 0) AS total_views,
			COALESCE(SUM(total_clicks), 0) AS total_clicks,
			COALESCE(AVG(total_hover_time_ms), 0) AS avg_hover_time`).
		Group("product_id")

	if productId != nil {
		query = query.Where("product_id = ?", *productId)
	} else {
		query = query.Order("total_hover_time DESC")
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
