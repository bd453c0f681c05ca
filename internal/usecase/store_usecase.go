package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/internal/events"
	"github.com/weblarek/storefront-backend/pkg/e"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

// Сообщения валидации формы заказа
const (
	msgPaymentRequired = "Необходимо указать способ оплаты"
	msgAddressRequired = "Необходимо указать адрес"
	msgEmailRequired   = "Необходимо указать email"
	msgPhoneRequired   = "Необходимо указать телефон"
)

// StoreUseCase — модель состояния магазина: каталог, корзина, черновик
// заказа и ошибки валидации. Все мутации идут через методы модели,
// об изменениях модель сообщает через шину событий.
//
// Мьютекс защищает состояние от конкурентных HTTP-запросов; публикация
// событий выполняется после снятия блокировки, поэтому обработчик
// может снова обращаться к модели.
type StoreUseCase struct {
	mu         sync.Mutex
	bus        *events.Bus
	shopAPI    ShopAPIInfra
	cacheRepo  CacheRepository
	logger     logger.Logger
	catalog    []*domain.Product
	index      map[string]*domain.Product
	basket     []*domain.Product
	order      domain.OrderDraft
	formErrors domain.FormErrors
}

func NewStoreUC(
	bus *events.Bus,
	shopAPI ShopAPIInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *StoreUseCase {
	return &StoreUseCase{
		bus:        bus,
		shopAPI:    shopAPI,
		cacheRepo:  cacheRepo,
		logger:     logger,
		index:      make(map[string]*domain.Product),
		formErrors: domain.FormErrors{},
	}
}

// LoadCatalog целиком заменяет каталог. Корзина и черновик заказа не
// затрагиваются: позиции корзины перепривязываются к новым экземплярам
// товаров с теми же идентификаторами, признак членства сохраняется.
func (s *StoreUseCase) LoadCatalog(products []domain.Product) {
	s.mu.Lock()

	catalog := make([]*domain.Product, 0, len(products))
	index := make(map[string]*domain.Product, len(products))
	for i := range products {
		p := products[i]
		p.InBasket = false
		catalog = append(catalog, &p)
		index[p.ID] = &p
	}

	for i, item := range s.basket {
		if fresh, ok := index[item.ID]; ok {
			fresh.InBasket = true
			s.basket[i] = fresh
		}
	}

	s.catalog = catalog
	s.index = index
	payload := s.catalogCopyLocked()
	s.mu.Unlock()

	s.publish(EventCatalogChanged, payload)
}

// RefreshCatalog запрашивает каталог у внешнего API, загружает его в модель
// и фоном обновляет кэш.
func (s *StoreUseCase) RefreshCatalog(ctx context.Context) error {
	const op = "StoreUseCase.RefreshCatalog"

	products, err := s.shopAPI.FetchCatalog(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	s.LoadCatalog(products)

	// Фоновое обновление кэша каталога
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.SetCatalog(bgCtx, products); err != nil {
			s.logger.Warnf("Failed to cache catalog in background: %v", e.Wrap(op, err))
		}
	}()

	return nil
}

// RestoreCatalogFromCache загружает каталог из кэша. Используется при
// старте, когда внешний API недоступен.
func (s *StoreUseCase) RestoreCatalogFromCache(ctx context.Context) error {
	const op = "StoreUseCase.RestoreCatalogFromCache"

	products, err := s.cacheRepo.GetCatalog(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	if len(products) == 0 {
		return e.Wrap(op, e.ErrCatalogCacheEmpty)
	}

	s.LoadCatalog(products)
	s.logger.Infof("Catalog restored from cache: %d products", len(products))

	return nil
}

// Products возвращает копию текущего каталога.
func (s *StoreUseCase) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalogCopyLocked()
}

// Product возвращает товар по идентификатору. Если товара нет в каталоге,
// запрашивает его у внешнего API (без добавления в каталог).
func (s *StoreUseCase) Product(ctx context.Context, id string) (*domain.Product, error) {
	const op = "StoreUseCase.Product"

	s.mu.Lock()
	if p, ok := s.index[id]; ok {
		cp := *p
		s.mu.Unlock()
		return &cp, nil
	}
	s.mu.Unlock()

	product, err := s.shopAPI.FetchProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// AddToBasket добавляет товар в конец корзины и выставляет признак членства.
// Неизвестный или уже добавленный товар молча игнорируется.
func (s *StoreUseCase) AddToBasket(productID string) {
	s.mu.Lock()
	p, ok := s.index[productID]
	if !ok || p.InBasket {
		s.mu.Unlock()
		return
	}

	p.InBasket = true
	s.basket = append(s.basket, p)
	payload := s.catalogCopyLocked()
	s.mu.Unlock()

	s.publish(EventCatalogChanged, payload)
	s.publish(EventBasketChanged, nil)
}

// RemoveFromBasket убирает товар из корзины и сбрасывает признак членства.
// Отсутствующий в корзине товар молча игнорируется.
func (s *StoreUseCase) RemoveFromBasket(productID string) {
	s.mu.Lock()
	idx := -1
	for i, item := range s.basket {
		if item.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.basket[idx].InBasket = false
	if p, ok := s.index[productID]; ok {
		p.InBasket = false
	}
	s.basket = append(s.basket[:idx], s.basket[idx+1:]...)
	s.mu.Unlock()

	s.publish(EventBasketChanged, nil)
}

// ToggleBasket переключает членство товара в корзине. Событий не публикует:
// уведомление — обязанность явных AddToBasket/RemoveFromBasket, переключение
// оставлено как производное удобство. Неизвестный товар молча игнорируется.
func (s *StoreUseCase) ToggleBasket(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.index[productID]
	if !ok {
		return
	}

	if p.InBasket {
		for i, item := range s.basket {
			if item.ID == productID {
				s.basket = append(s.basket[:i], s.basket[i+1:]...)
				break
			}
		}
		p.InBasket = false
		return
	}

	p.InBasket = true
	s.basket = append(s.basket, p)
}

// Basket возвращает копию содержимого корзины в порядке добавления.
func (s *StoreUseCase) Basket() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Product, 0, len(s.basket))
	for _, item := range s.basket {
		result = append(result, *item)
	}

	return result
}

// BasketTotal возвращает сумму корзины в копейках, считая nil-цену нулём.
// Сумма пересчитывается при каждом вызове.
func (s *StoreUseCase) BasketTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.basketTotalLocked()
}

// BasketCount возвращает количество товаров в корзине.
func (s *StoreUseCase) BasketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.basket)
}

// SetOrderField устанавливает поле черновика заказа, полностью пересчитывает
// ошибки валидации и публикует их. Неизвестное имя поля — ошибка программиста,
// о ней сообщается громко.
func (s *StoreUseCase) SetOrderField(field domain.OrderField, value string) error {
	const op = "StoreUseCase.SetOrderField"

	if !field.Valid() {
		return e.Wrap(op, e.ErrUnknownOrderField)
	}

	s.mu.Lock()
	switch field {
	case domain.FieldPayment:
		s.order.Payment = value
	case domain.FieldAddress:
		s.order.Address = value
	case domain.FieldEmail:
		s.order.Email = value
	case domain.FieldPhone:
		s.order.Phone = value
	}

	s.formErrors = s.validateLocked()
	payload := s.formErrorsCopyLocked()
	s.mu.Unlock()

	s.publish(EventFormErrorsChanged, payload)

	return nil
}

// Validate заново пересчитывает ошибки валидации и возвращает true,
// если все обязательные поля заполнены. Повторные вызовы безопасны.
func (s *StoreUseCase) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.formErrors = s.validateLocked()

	return len(s.formErrors) == 0
}

// FormErrors возвращает копию текущего отображения ошибок валидации.
func (s *StoreUseCase) FormErrors() domain.FormErrors {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.formErrorsCopyLocked()
}

// FinalizeOrder формирует неизменяемый снимок заказа: поля черновика,
// идентификаторы товаров в порядке корзины и текущую сумму.
// Ни корзину, ни черновик не изменяет, повторные вызовы безопасны.
func (s *StoreUseCase) FinalizeOrder() *domain.OrderSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]string, 0, len(s.basket))
	for _, item := range s.basket {
		items = append(items, item.ID)
	}

	return &domain.OrderSnapshot{
		Payment: s.order.Payment,
		Address: s.order.Address,
		Email:   s.order.Email,
		Phone:   s.order.Phone,
		Items:   items,
		Total:   s.basketTotalLocked(),
	}
}

// SubmitOrder проверяет черновик, формирует снимок и отправляет его во
// внешний API. При успехе корзина и черновик очищаются, публикуется
// order:submitted. Сетевая ошибка возвращается вызывающему без повторов.
func (s *StoreUseCase) SubmitOrder(ctx context.Context) (*SubmitOrderRes, error) {
	const op = "StoreUseCase.SubmitOrder"

	s.mu.Lock()
	s.formErrors = s.validateLocked()
	if len(s.formErrors) > 0 {
		payload := s.formErrorsCopyLocked()
		s.mu.Unlock()
		s.publish(EventFormErrorsChanged, payload)
		return nil, e.Wrap(op, e.ErrValidationFailed)
	}

	if len(s.basket) == 0 {
		s.mu.Unlock()
		return nil, e.Wrap(op, e.ErrEmptyBasket)
	}
	s.mu.Unlock()

	snapshot := s.FinalizeOrder()

	result, err := s.shopAPI.SubmitOrder(ctx, snapshot)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.ClearOrderAndBasket()
	s.publish(EventOrderSubmitted, NewOrderSubmittedPayload(snapshot, result))

	return result, nil
}

// ClearOrderAndBasket сбрасывает черновик заказа, очищает корзину и признаки
// членства у всех товаров каталога. Повторные вызовы безопасны.
func (s *StoreUseCase) ClearOrderAndBasket() {
	s.mu.Lock()
	s.order = domain.OrderDraft{}
	s.formErrors = domain.FormErrors{}

	for _, item := range s.basket {
		item.InBasket = false
	}
	for _, p := range s.catalog {
		p.InBasket = false
	}
	s.basket = nil

	payload := s.catalogCopyLocked()
	s.mu.Unlock()

	s.publish(EventCatalogChanged, payload)
	s.publish(EventBasketChanged, nil)
}

// validateLocked пересчитывает ошибки с нуля: четыре обязательных поля
// проверяются независимо, межполевых правил нет.
func (s *StoreUseCase) validateLocked() domain.FormErrors {
	errors := domain.FormErrors{}

	if s.order.Payment == "" {
		errors[domain.FieldPayment] = msgPaymentRequired
	}
	if s.order.Address == "" {
		errors[domain.FieldAddress] = msgAddressRequired
	}
	if s.order.Email == "" {
		errors[domain.FieldEmail] = msgEmailRequired
	}
	if s.order.Phone == "" {
		errors[domain.FieldPhone] = msgPhoneRequired
	}

	return errors
}

func (s *StoreUseCase) basketTotalLocked() int64 {
	var total int64
	for _, item := range s.basket {
		total += item.PriceOrZero()
	}

	return total
}

func (s *StoreUseCase) catalogCopyLocked() []domain.Product {
	result := make([]domain.Product, 0, len(s.catalog))
	for _, p := range s.catalog {
		result = append(result, *p)
	}

	return result
}

func (s *StoreUseCase) formErrorsCopyLocked() domain.FormErrors {
	result := make(domain.FormErrors, len(s.formErrors))
	for field, msg := range s.formErrors {
		result[field] = msg
	}

	return result
}

// publish отправляет событие в шину. Ошибка обработчика не прерывает
// операцию модели, но фиксируется в логе.
func (s *StoreUseCase) publish(name string, payload any) {
	if err := s.bus.Publish(name, payload); err != nil {
		s.logger.Warnf("event %s handler failed: %v", name, err)
	}
}
