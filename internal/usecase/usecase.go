package usecase

import (
	"context"

	"github.com/weblarek/storefront-backend/internal/domain"
)

type StoreUC interface {
	LoadCatalog(products []domain.Product)
	RefreshCatalog(ctx context.Context) error
	RestoreCatalogFromCache(ctx context.Context) error

	Products() []domain.Product
	Product(ctx context.Context, id string) (*domain.Product, error)

	AddToBasket(productID string)
	RemoveFromBasket(productID string)
	ToggleBasket(productID string)
	Basket() []domain.Product
	BasketTotal() int64
	BasketCount() int

	SetOrderField(field domain.OrderField, value string) error
	Validate() bool
	FormErrors() domain.FormErrors
	FinalizeOrder() *domain.OrderSnapshot
	SubmitOrder(ctx context.Context) (*SubmitOrderRes, error)
	ClearOrderAndBasket()
}
