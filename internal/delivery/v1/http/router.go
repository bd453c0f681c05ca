package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/weblarek/storefront-backend/internal/usecase"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(storeUC usecase.StoreUC) {
	r.router.Route("/api/v1", func(v1 chi.Router) {
		handler := NewStoreHandler(storeUC, r.logger)
		registerStoreRoutes(v1, handler)
	})
}

func registerStoreRoutes(router chi.Router, handler *StoreHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", handler.getProducts)
		pr.Get("/{id}", handler.getProduct)
	})

	router.Route("/basket", func(b chi.Router) {
		b.Get("/", handler.getBasket)
		b.Post("/items", handler.addBasketItem)
		b.Delete("/items/{id}", handler.removeBasketItem)
		b.Post("/toggle/{id}", handler.toggleBasketItem)
	})

	router.Route("/order", func(o chi.Router) {
		o.Post("/", handler.submitOrder)
		o.Put("/fields", handler.putOrderField)
		o.Get("/errors", handler.getOrderErrors)
	})
}
