package catalog

import (
	"context"

	"hornero/internal/domain"
)

type SearchUseCase interface {
	SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error)
}

type Service interface {
	GetProductsByIDs(ctx context.Context, ids []string) (found []domain.Product, notFoundIDs []string, err error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
}

type Repository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Product, error)
	FindAllActive(ctx context.Context) ([]domain.Product, error)
}
