package shopapi

import (
	"context"
	"sync"
	"time"

	"github.com/weblarek/storefront-backend/pkg/jitter"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

// CatalogRefresher — часть модели магазина, нужная воркеру обновления.
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context) error
	RestoreCatalogFromCache(ctx context.Context) error
}

// RefreshWorker периодически перечитывает каталог из внешнего API.
// Интервал берётся с джиттером, чтобы экземпляры сервиса не ходили
// в API одновременно.
type RefreshWorker struct {
	store    CatalogRefresher
	logger   logger.Logger
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewRefreshWorker(store CatalogRefresher, interval time.Duration, logger logger.Logger) *RefreshWorker {
	return &RefreshWorker{
		store:    store,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

func (w *RefreshWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *RefreshWorker) run(ctx context.Context) {
	// Первичная загрузка: при недоступном API пробуем тёплый старт из кэша
	if err := w.store.RefreshCatalog(ctx); err != nil {
		w.logger.Warnf("Initial catalog load failed: %v", err)

		if err := w.store.RestoreCatalogFromCache(ctx); err != nil {
			w.logger.Warnf("Catalog warm start from cache failed: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Catalog refresh worker stopped by context cancellation")
			return
		case <-w.stop:
			return
		case <-time.After(jitter.Duration(w.interval, jitter.DefaultJitter)):
			if err := w.store.RefreshCatalog(ctx); err != nil {
				w.logger.Warnf("Catalog refresh failed: %v", err)
			}
		}
	}
}
