package unitofwork

import (
	"context"

	"cloess-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	VisitorSessionRepository() contract.VisitorSessionRepository
	ProductInteractionRepository() contract.ProductInteractionRepository
}
