package usecase

import (
	"context"

	"github.com/weblarek/storefront-backend/internal/domain"
)

type CacheRepository interface {
	SetCatalog(ctx context.Context, products []domain.Product) error
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	DeleteCatalog(ctx context.Context) error
}
