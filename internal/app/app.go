package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	config "github.com/weblarek/storefront-backend/internal/cfg"
	v1Http "github.com/weblarek/storefront-backend/internal/delivery/v1/http"
	"github.com/weblarek/storefront-backend/internal/events"
	"github.com/weblarek/storefront-backend/internal/infrastructure/kafka"
	"github.com/weblarek/storefront-backend/internal/infrastructure/shopapi"
	redisRepo "github.com/weblarek/storefront-backend/internal/repository/redis"
	redisConv "github.com/weblarek/storefront-backend/internal/repository/redis/converter"
	"github.com/weblarek/storefront-backend/internal/usecase"
	"github.com/weblarek/storefront-backend/pkg/clients"
	"github.com/weblarek/storefront-backend/pkg/closer"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

// App собирает и запускает приложение: модель магазина с шиной событий,
// шлюз внешнего API, кэш каталога, зеркало событий и HTTP-сервер.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	worker  *shopapi.RefreshWorker
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(0)
	bus := events.NewBus()

	shopAPI := shopapi.NewShopAPI(cfg.ShopAPI, log)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, err
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	conv := redisConv.NewProductConverterImpl()
	cacheRepo := redisRepo.NewCacheRepo(redisClient, conv, cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return nil, err
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("Kafka topic check failed: %v", err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	kafka.NewEventMirror(producer, log).Attach(bus)

	storeUC := usecase.NewStoreUC(bus, shopAPI, cacheRepo, log)
	worker := shopapi.NewRefreshWorker(storeUC, cfg.ShopAPI.RefreshInterval, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(storeUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		worker:  worker,
		closer:  cl,
	}, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.worker.Start(ctx)
	a.closer.Add(func(context.Context) error {
		cancel()
		a.worker.Stop()
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("%v", err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}
