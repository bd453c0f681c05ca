package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/internal/events"
	"github.com/weblarek/storefront-backend/internal/usecase"
	"github.com/weblarek/storefront-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type mockShopAPI struct {
	submitRes *usecase.SubmitOrderRes
	submitErr error
}

func (m *mockShopAPI) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	return nil, e.ErrShopAPIUnavailable
}

func (m *mockShopAPI) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	return nil, e.ErrProductNotFound
}

func (m *mockShopAPI) SubmitOrder(ctx context.Context, snapshot *domain.OrderSnapshot) (*usecase.SubmitOrderRes, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitRes, nil
}

type mockCacheRepo struct{}

func (mockCacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error { return nil }
func (mockCacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error)        { return nil, nil }
func (mockCacheRepo) DeleteCatalog(ctx context.Context) error                         { return nil }

func price(v int64) *int64 {
	return &v
}

func newTestRouter(t *testing.T, api *mockShopAPI) (*chi.Mux, *usecase.StoreUseCase) {
	t.Helper()

	bus := events.NewBus()
	uc := usecase.NewStoreUC(bus, api, mockCacheRepo{}, nopLogger{})
	uc.LoadCatalog([]domain.Product{
		*domain.NewProduct("a", "Бэк-офис", "d", "https://cdn/a.svg", domain.CategorySoftSkill, price(10000)),
		*domain.NewProduct("b", "Мамка-таймер", "d", "https://cdn/b.svg", domain.CategoryOther, nil),
	})

	r := chi.NewRouter()
	router := NewRouter(r, nopLogger{})
	router.Init(uc)

	return r, uc
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func fillOrder(t *testing.T, router *chi.Mux) {
	t.Helper()

	for field, value := range map[string]string{
		"payment": "card",
		"address": "Спб, Невский 1",
		"email":   "user@example.com",
		"phone":   "+79990000000",
	} {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/order/fields", orderFieldRequest{Field: field, Value: value})
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestStoreHandler_Products(t *testing.T) {
	router, _ := newTestRouter(t, &mockShopAPI{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	require.NotNil(t, resp.Items[0].Price)
	assert.Equal(t, float64(100), *resp.Items[0].Price)
	assert.Nil(t, resp.Items[1].Price, "null price must survive the round trip")
}

func TestStoreHandler_ProductNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &mockShopAPI{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoreHandler_Basket(t *testing.T) {
	t.Run("AddAndRemove", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodPost, "/api/v1/basket/items", addBasketItemRequest{ID: "a"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp basketResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, float64(100), resp.Total)

		rec = doJSON(t, router, http.MethodDelete, "/api/v1/basket/items/a", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
	})

	t.Run("AddUnknownIDIsSilentNoop", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodPost, "/api/v1/basket/items", addBasketItemRequest{ID: "missing"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp basketResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
	})

	t.Run("AddWithoutIDIsBadRequest", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodPost, "/api/v1/basket/items", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Toggle", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodPost, "/api/v1/basket/toggle/b", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp basketResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})
}

func TestStoreHandler_OrderFields(t *testing.T) {
	t.Run("UnknownFieldIsBadRequest", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodPut, "/api/v1/order/fields", orderFieldRequest{Field: "nickname", Value: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("StepValidityIsIndependent", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		doJSON(t, router, http.MethodPut, "/api/v1/order/fields", orderFieldRequest{Field: "payment", Value: "card"})
		rec := doJSON(t, router, http.MethodPut, "/api/v1/order/fields", orderFieldRequest{Field: "address", Value: "Спб"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp validationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.True(t, resp.OrderStepValid, "contact errors must not block the payment step")
		assert.False(t, resp.ContactsStepValid)
		assert.Contains(t, resp.Errors, "email")
		assert.Contains(t, resp.Errors, "phone")
	})

	t.Run("ErrorsEndpointRecomputes", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		rec := doJSON(t, router, http.MethodGet, "/api/v1/order/errors", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp validationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.Len(t, resp.Errors, 4)
	})
}

func TestStoreHandler_SubmitOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		api := &mockShopAPI{submitRes: usecase.NewSubmitOrderRes("order-1", 10000)}
		router, uc := newTestRouter(t, api)

		doJSON(t, router, http.MethodPost, "/api/v1/basket/items", addBasketItemRequest{ID: "a"})
		fillOrder(t, router)

		rec := doJSON(t, router, http.MethodPost, "/api/v1/order/", nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp orderResultResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order-1", resp.ID)
		assert.Equal(t, float64(100), resp.Total)
		assert.Equal(t, 0, uc.BasketCount())
	})

	t.Run("ValidationFailureIsUnprocessable", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		doJSON(t, router, http.MethodPost, "/api/v1/basket/items", addBasketItemRequest{ID: "a"})
		rec := doJSON(t, router, http.MethodPost, "/api/v1/order/", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("EmptyBasketIsUnprocessable", func(t *testing.T) {
		router, _ := newTestRouter(t, &mockShopAPI{})

		fillOrder(t, router)
		rec := doJSON(t, router, http.MethodPost, "/api/v1/order/", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("NetworkFailureIsBadGateway", func(t *testing.T) {
		api := &mockShopAPI{submitErr: fmt.Errorf("%w: connection refused", e.ErrShopAPIUnavailable)}
		router, uc := newTestRouter(t, api)

		doJSON(t, router, http.MethodPost, "/api/v1/basket/items", addBasketItemRequest{ID: "a"})
		fillOrder(t, router)

		rec := doJSON(t, router, http.MethodPost, "/api/v1/order/", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, 1, uc.BasketCount(), "basket survives a failed submission")
	})
}
