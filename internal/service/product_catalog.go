package service

import (
	"context"
	"time"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/specification"
	"cloess-chatbot-be/internal/repository/unitofwork"
)

// ProductCatalog is the catalog read side the assistant consumes. Every call
// runs under its own timeout.
type ProductCatalog struct {
	uowFactory unitofwork.RepositoryFactory
	timeout    time.Duration
}

func NewProductCatalog(uowFactory unitofwork.RepositoryFactory, timeout time.Duration) *ProductCatalog {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProductCatalog{uowFactory: uowFactory, timeout: timeout}
}

func (c *ProductCatalog) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().FindAll(ctx,
		specification.ActiveProducts{},
		specification.ProductSearchQuery{Query: term},
		specification.Pagination{Limit: limit},
	)
}

func (c *ProductCatalog) Recent(ctx context.Context, limit int) ([]*entity.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().FindAll(ctx,
		specification.ActiveProducts{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (c *ProductCatalog) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().Categories(ctx)
}

func (c *ProductCatalog) Stats(ctx context.Context) (*entity.CatalogStats, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().Stats(ctx)
}
