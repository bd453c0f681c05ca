package usecase

import (
	"context"

	"github.com/weblarek/storefront-backend/internal/domain"
)

type ShopAPIInfra interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
	FetchProduct(ctx context.Context, id string) (*domain.Product, error)
	SubmitOrder(ctx context.Context, snapshot *domain.OrderSnapshot) (*SubmitOrderRes, error)
}
