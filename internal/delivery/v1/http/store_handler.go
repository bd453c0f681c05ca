package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/internal/usecase"
	"github.com/weblarek/storefront-backend/pkg/e"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

type StoreHandler struct {
	storeUsecase usecase.StoreUC
	logger       logger.Logger
}

func NewStoreHandler(storeUsecase usecase.StoreUC, logger logger.Logger) *StoreHandler {
	return &StoreHandler{storeUsecase: storeUsecase, logger: logger}
}

// getProducts возвращает каталог с признаками членства в корзине.
func (h *StoreHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toCatalogResponse(h.storeUsecase.Products()))
}

// getProduct возвращает один товар; отсутствующий в каталоге товар
// запрашивается у внешнего API.
func (h *StoreHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.storeUsecase.Product(r.Context(), id)
	if err != nil {
		h.logger.Warnf("get product %s: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (h *StoreHandler) getBasket(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, h.basketResponse())
}

// addBasketItem добавляет товар в корзину. Неизвестный идентификатор —
// молчаливый no-op, клиент получает актуальное состояние корзины.
func (h *StoreHandler) addBasketItem(w http.ResponseWriter, r *http.Request) {
	var req addBasketItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		h.logger.Warnf("%d %s: invalid add basket request", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	h.storeUsecase.AddToBasket(req.ID)
	WriteSuccess(w, http.StatusOK, h.basketResponse())
}

func (h *StoreHandler) removeBasketItem(w http.ResponseWriter, r *http.Request) {
	h.storeUsecase.RemoveFromBasket(chi.URLParam(r, "id"))
	WriteSuccess(w, http.StatusOK, h.basketResponse())
}

func (h *StoreHandler) toggleBasketItem(w http.ResponseWriter, r *http.Request) {
	h.storeUsecase.ToggleBasket(chi.URLParam(r, "id"))
	WriteSuccess(w, http.StatusOK, h.basketResponse())
}

// putOrderField устанавливает поле формы заказа и возвращает
// пересчитанное состояние валидации.
func (h *StoreHandler) putOrderField(w http.ResponseWriter, r *http.Request) {
	var req orderFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: invalid order field request", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := h.storeUsecase.SetOrderField(domain.OrderField(req.Field), req.Value); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toValidationResponse(h.storeUsecase.FormErrors()))
}

func (h *StoreHandler) getOrderErrors(w http.ResponseWriter, r *http.Request) {
	h.storeUsecase.Validate()
	WriteSuccess(w, http.StatusOK, toValidationResponse(h.storeUsecase.FormErrors()))
}

// submitOrder оформляет заказ во внешнем API. При успехе корзина и черновик
// уже очищены моделью; сумма в ответе подтверждена сервером.
func (h *StoreHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.storeUsecase.SubmitOrder(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, orderResultResponse{
		ID:    result.OrderID,
		Total: centsToNumber(result.Total),
	})
}

func (h *StoreHandler) basketResponse() basketResponse {
	basket := h.storeUsecase.Basket()
	items := make([]productResponse, 0, len(basket))
	for i := range basket {
		items = append(items, toProductResponse(&basket[i]))
	}

	return basketResponse{
		Items: items,
		Total: centsToNumber(h.storeUsecase.BasketTotal()),
		Count: h.storeUsecase.BasketCount(),
	}
}
