package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrUnknownOrderField):
		return http.StatusBadRequest, e.ErrUnknownOrderField.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrValidationFailed):
		return http.StatusUnprocessableEntity, e.ErrValidationFailed.Error()
	case errors.Is(err, e.ErrEmptyBasket):
		return http.StatusUnprocessableEntity, e.ErrEmptyBasket.Error()
	case errors.Is(err, e.ErrShopAPIUnavailable):
		return http.StatusBadGateway, e.ErrShopAPIUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// centsToNumber переводит цену из копеек в число для JSON-ответа.
func centsToNumber(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// priceToNumber переводит nullable-цену в число, сохраняя null.
func priceToNumber(price *int64) *float64 {
	if price == nil {
		return nil
	}
	v := centsToNumber(*price)
	return &v
}

type productResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	InBasket    bool     `json:"inBasket"`
}

type catalogResponse struct {
	Total int               `json:"total"`
	Items []productResponse `json:"items"`
}

type basketResponse struct {
	Items []productResponse `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

// validationResponse — текущее состояние валидации формы заказа.
// Валидность считается и по шагам, чтобы ошибки шага оплаты не
// блокировали шаг контактов (и наоборот).
type validationResponse struct {
	Valid             bool              `json:"valid"`
	OrderStepValid    bool              `json:"orderStepValid"`
	ContactsStepValid bool              `json:"contactsStepValid"`
	Errors            map[string]string `json:"errors"`
}

type orderResultResponse struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

type orderFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type addBasketItemRequest struct {
	ID string `json:"id"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Category:    string(p.Category),
		Price:       priceToNumber(p.Price),
		InBasket:    p.InBasket,
	}
}

func toCatalogResponse(products []domain.Product) catalogResponse {
	items := make([]productResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}

	return catalogResponse{
		Total: len(items),
		Items: items,
	}
}

func toValidationResponse(formErrors domain.FormErrors) validationResponse {
	errs := make(map[string]string, len(formErrors))
	for field, msg := range formErrors {
		errs[string(field)] = msg
	}

	_, hasPayment := formErrors[domain.FieldPayment]
	_, hasAddress := formErrors[domain.FieldAddress]
	_, hasEmail := formErrors[domain.FieldEmail]
	_, hasPhone := formErrors[domain.FieldPhone]

	return validationResponse{
		Valid:             len(formErrors) == 0,
		OrderStepValid:    !hasPayment && !hasAddress,
		ContactsStepValid: !hasEmail && !hasPhone,
		Errors:            errs,
	}
}
