// Package shopapi — клиент внешнего API магазина: каталог товаров
// и оформление заказов.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront-backend/internal/cfg"
	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/internal/usecase"
	"github.com/weblarek/storefront-backend/pkg/e"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

// ShopAPI — HTTP-клиент внешнего API магазина.
// Повторов при сетевых ошибках нет: ошибка возвращается вызывающему.
type ShopAPI struct {
	client *http.Client
	cfg    *cfg.ShopAPICfg
	logger logger.Logger
}

func NewShopAPI(cfg *cfg.ShopAPICfg, logger logger.Logger) *ShopAPI {
	return &ShopAPI{
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Модели внешнего API. Цена приходит дробным числом либо null.
type productModel struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
}

type productListModel struct {
	Total int            `json:"total"`
	Items []productModel `json:"items"`
}

type orderModel struct {
	Payment string   `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Items   []string `json:"items"`
	Total   float64  `json:"total"`
}

type orderResultModel struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

// FetchCatalog запрашивает полный список товаров.
// Ссылки на изображения дополняются CDN-префиксом.
func (s *ShopAPI) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "ShopAPI.FetchCatalog"

	var list productListModel
	if err := s.getJSON(ctx, "/product/", &list); err != nil {
		return nil, e.Wrap(op, err)
	}

	products := make([]domain.Product, 0, len(list.Items))
	for _, item := range list.Items {
		products = append(products, *s.toProduct(&item))
	}

	return products, nil
}

// FetchProduct запрашивает один товар по идентификатору.
func (s *ShopAPI) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ShopAPI.FetchProduct"

	var item productModel
	if err := s.getJSON(ctx, "/product/"+id, &item); err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.toProduct(&item), nil
}

// SubmitOrder отправляет снимок заказа. Сумма в ответе подтверждена сервером
// и может отличаться от клиентской, для отображения авторитетна она.
func (s *ShopAPI) SubmitOrder(ctx context.Context, snapshot *domain.OrderSnapshot) (*usecase.SubmitOrderRes, error) {
	const op = "ShopAPI.SubmitOrder"

	body, err := json.Marshal(orderModel{
		Payment: snapshot.Payment,
		Address: snapshot.Address,
		Email:   snapshot.Email,
		Phone:   snapshot.Phone,
		Items:   snapshot.Items,
		Total:   fromCents(snapshot.Total),
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/order", bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrShopAPIUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, e.Wrap(op, fmt.Errorf("%w: unexpected status %d", e.ErrShopAPIUnavailable, resp.StatusCode))
	}

	var result orderResultModel
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, e.Wrap(op, err)
	}

	return usecase.NewSubmitOrderRes(result.ID, toCents(result.Total)), nil
}

// getJSON выполняет GET-запрос и декодирует JSON-ответ.
func (s *ShopAPI) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", e.ErrShopAPIUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return e.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", e.ErrShopAPIUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

// toProduct переводит модель внешнего API в доменную:
// цена конвертируется в копейки, изображение получает CDN-префикс.
func (s *ShopAPI) toProduct(item *productModel) *domain.Product {
	var price *int64
	if item.Price != nil {
		cents := toCents(*item.Price)
		price = &cents
	}

	image := item.Image
	if image != "" && !strings.HasPrefix(image, "/") {
		image = "/" + image
	}

	return domain.NewProduct(
		item.ID,
		item.Title,
		item.Description,
		s.cfg.CDNURL+image,
		domain.Category(item.Category),
		price,
	)
}

// toCents переводит сумму внешнего API в копейки.
func toCents(v float64) int64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// fromCents переводит копейки в сумму внешнего API.
func fromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
