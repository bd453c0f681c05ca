package usecase

import "github.com/weblarek/storefront-backend/internal/domain"

// Имена событий — стабильный контракт между моделью магазина и подписчиками.
const (
	EventCatalogChanged    = "catalog:changed"     // payload: []domain.Product
	EventBasketChanged     = "basket:changed"      // payload: nil, подписчики перечитывают корзину
	EventFormErrorsChanged = "form_errors:changed" // payload: domain.FormErrors
	EventOrderSubmitted    = "order:submitted"     // payload: *OrderSubmittedPayload
)

// SubmitOrderRes — результат оформления заказа во внешнем API.
// Total — подтверждённая сервером сумма, она авторитетна для отображения.
type SubmitOrderRes struct {
	OrderID string
	Total   int64
}

// OrderSubmittedPayload — полезная нагрузка события order:submitted.
type OrderSubmittedPayload struct {
	Snapshot *domain.OrderSnapshot
	Result   *SubmitOrderRes
}

// MAPPERS

func NewSubmitOrderRes(orderID string, total int64) *SubmitOrderRes {
	return &SubmitOrderRes{
		OrderID: orderID,
		Total:   total,
	}
}

func NewOrderSubmittedPayload(snapshot *domain.OrderSnapshot, result *SubmitOrderRes) *OrderSubmittedPayload {
	return &OrderSubmittedPayload{
		Snapshot: snapshot,
		Result:   result,
	}
}
