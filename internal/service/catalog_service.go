package service

import (
	"context"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/specification"
	"cloess-chatbot-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
)

type ICatalogService interface {
	List(ctx context.Context, request *dto.ListProductsRequest) (*dto.ProductListResponse, error)
	Search(ctx context.Context, request *dto.SearchProductsRequest) (*dto.ProductListResponse, error)
	PriceRange(ctx context.Context, request *dto.PriceRangeRequest) (*dto.ProductListResponse, error)
	Stats(ctx context.Context) (*dto.CatalogStatsResponse, error)
	Show(ctx context.Context, id int) (*dto.ProductResponse, error)
	Categories(ctx context.Context) (*dto.CategoryListResponse, error)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory) ICatalogService {
	return &catalogService{uowFactory: uowFactory}
}

func (s *catalogService) List(ctx context.Context, request *dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().FindAll(ctx,
		specification.ActiveProducts{},
		specification.ByCategory{Category: request.Category},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: request.Limit, Offset: request.Offset},
	)
	if err != nil {
		return nil, err
	}
	return toProductList(products), nil
}

func (s *catalogService) Search(ctx context.Context, request *dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().FindAll(ctx,
		specification.ActiveProducts{},
		specification.ProductSearchQuery{Query: request.Query},
		specification.Pagination{Limit: request.Limit},
	)
	if err != nil {
		return nil, err
	}
	return toProductList(products), nil
}

func (s *catalogService) PriceRange(ctx context.Context, request *dto.PriceRangeRequest) (*dto.ProductListResponse, error) {
	if request.MinPrice != nil && request.MaxPrice != nil && *request.MinPrice > *request.MaxPrice {
		return nil, fiber.NewError(fiber.StatusBadRequest, "min_price must not exceed max_price")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindByPriceRange(ctx, request.MinPrice, request.MaxPrice, request.Limit)
	if err != nil {
		return nil, err
	}
	return toProductList(products), nil
}

func (s *catalogService) Stats(ctx context.Context) (*dto.CatalogStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.ProductRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.CatalogStatsResponse{
		TotalProducts:   stats.TotalProducts,
		TotalCategories: stats.TotalCategories,
		TotalStock:      stats.TotalStock,
		PriceRange: dto.PriceRange{
			Min:     stats.MinPrice,
			Max:     stats.MaxPrice,
			Average: stats.AvgPrice,
		},
		Categories: make([]dto.CategoryStatsResponse, 0, len(stats.Categories)),
	}
	for _, c := range stats.Categories {
		res.Categories = append(res.Categories, dto.CategoryStatsResponse{
			Name:     c.Category,
			Count:    c.Count,
			AvgPrice: c.AvgPrice,
		})
	}
	return res, nil
}

func (s *catalogService) Show(ctx context.Context, id int) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ActiveProducts{},
	)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return toProductResponse(product), nil
}

func (s *catalogService) Categories(ctx context.Context) (*dto.CategoryListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	categories, err := uow.ProductRepository().Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return &dto.CategoryListResponse{Categories: categories}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Id:            p.Id,
		Name:          p.Name,
		Price:         p.Price,
		Currency:      p.Currency,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}
}

func toProductList(products []*entity.Product) *dto.ProductListResponse {
	res := &dto.ProductListResponse{Products: make([]*dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		res.Products = append(res.Products, toProductResponse(p))
	}
	res.Count = len(res.Products)
	return res
}
