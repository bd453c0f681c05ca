package e

import "fmt"

var (
	// Внутренние ошибки модели магазина
	ErrUnknownOrderField = fmt.Errorf("unknown order field")
	ErrValidationFailed  = fmt.Errorf("order validation failed")
	ErrEmptyBasket       = fmt.Errorf("basket is empty")

	// Ошибки шлюза внешнего API магазина
	ErrShopAPIUnavailable = fmt.Errorf("shop api unavailable")
	ErrProductNotFound    = fmt.Errorf("product not found")

	// Ошибки кэша каталога
	ErrCatalogCacheEmpty = fmt.Errorf("catalog cache is empty")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
