package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/techshop/config"
	cachemem "github.com/Gunvolt24/techshop/internal/cache/memory"
	"github.com/Gunvolt24/techshop/internal/cart"
	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/kafka"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/shopapi"
	rest "github.com/Gunvolt24/techshop/internal/transport/http"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/logger"
	"github.com/Gunvolt24/techshop/pkg/metrics"
	"github.com/Gunvolt24/techshop/pkg/telemetry"
	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/gin-gonic/gin"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер обновлений товаров; nil — выключен
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// closers — стек освобождения ресурсов, выполняется в обратном порядке.
type closers []func()

func (c *closers) push(f func()) { *c = append(*c, f) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// Bootstrap — собирает зависимости и возвращает приложение и функцию очистки.
// При ошибке уже открытые ресурсы закрываются, cleanup — no-op.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	noop := func() {}

	logg, syncLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, noop, err
	}
	var stack closers
	stack.push(func() {
		if err := syncLogger(); err != nil {
			logg.Warnf(ctx, "cleanup logger: %v", err)
		}
	})

	metrics.MustRegister()

	kv, closeStorage, err := OpenStorage(ctx, cfg, logg)
	if err != nil {
		stack.run()
		return nil, noop, err
	}
	stack.push(closeStorage)

	if cfg.Tracing.Enabled {
		stack.push(startTracing(ctx, cfg, logg))
	}

	svc, err := NewServices(cfg, kv, logg)
	if err != nil {
		stack.run()
		return nil, noop, err
	}
	stack.push(func() {
		if err := svc.Events.Close(); err != nil {
			logg.Warnf(ctx, "kafka publisher close error: %v", err)
		}
	})
	if cfg.ShopAPI.APIKey == "" {
		logg.Warnf(ctx, "shop api key is empty, the shop api will reject requests")
	}

	if n := cfg.Cache.WarmUpN; n > 0 {
		if err := svc.Products.WarmUpCache(ctx, n); err != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", err)
		}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      newHTTPServer(ctx, cfg, svc, logg),
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Консьюмер обновлений товаров сбрасывает карточки в кэше.
	if cfg.Kafka.ConsumerEnabled {
		app.KafkaConsumer = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.ProductUpdatesTopic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
			MaxAttempts:    cfg.Kafka.MaxAttempts,
		}, svc.Products, logg)
	}

	return app, stack.run, nil
}

// startTracing — OTLP-экспорт спанов; при ошибке трейсинг остаётся no-op.
// Возвращает остановку провайдера.
func startTracing(ctx context.Context, cfg *config.Config, log ports.Logger) func() {
	shutdown, err := telemetry.SetupTracing(ctx, telemetry.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Upstream:    cfg.ShopAPI.BaseURL,
	})
	if err != nil {
		log.Warnf(ctx, "failed to setup tracing: %v", err)
		return func() {}
	}
	log.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
		cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warnf(ctx, "shutdown tracing: %v", err)
		}
	}
}

// newHTTPServer — gin-роутер витрины за http.Server с таймаутами из конфига.
func newHTTPServer(ctx context.Context, cfg *config.Config, svc *Services, log ports.Logger) *http.Server {
	applyGinMode(ctx, cfg.HTTP.GinMode, log)

	// otelgin только при включённом трейсинге
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	handler := rest.NewHandler(svc.Catalog, svc.Cart, svc.Orders, log, rest.Options{
		HandlerTimeout:   cfg.HTTP.HandlerTimeout,
		PageSize:         cfg.Catalog.PageSize,
		ProfileCookieTTL: cfg.HTTP.ProfileCookieTTL,
	})
	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           rest.NewRouter(handler, cfg.HTTP.StaticDir, otelServiceName),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

// Services — сервисы витрины поверх одного хранилища профилей.
// Общие для HTTP-сервера и CLI.
type Services struct {
	Catalog  *usecase.CatalogService
	Cart     *usecase.CartService
	Orders   *usecase.OrderService
	Products *usecase.ProductResolver
	Events   ports.EventPublisher
}

// NewServices — клиент внешнего API, кэш товаров и сервисы usecase.
func NewServices(cfg *config.Config, kv ports.KVStore, log ports.Logger) (*Services, error) {
	api, err := shopapi.New(shopapi.Config{
		BaseURL:    cfg.ShopAPI.BaseURL,
		PathPrefix: cfg.ShopAPI.PathPrefix,
		APIKey:     cfg.ShopAPI.APIKey,
		Timeout:    cfg.ShopAPI.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}

	productCache := cachemem.NewProductCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	products := usecase.NewProductResolver(api, productCache, log)
	orderValidator := validate.NewOrderValidator()
	snapshots := usecase.NewSnapshotStore(kv)
	events := newPublisher(cfg, log)

	return &Services{
		Catalog:  usecase.NewCatalogService(api, products, catalog.NewSequencers(cfg.Catalog.SuggestProfiles), log),
		Cart:     usecase.NewCartService(cart.NewStore(kv, log), products, api, orderValidator, snapshots, events, log),
		Orders:   usecase.NewOrderService(api, orderValidator, products, snapshots, events, log),
		Products: products,
		Events:   events,
	}, nil
}

// newPublisher — Kafka-продюсер событий заказов или заглушка, если Kafka выключена.
func newPublisher(cfg *config.Config, log ports.Logger) ports.EventPublisher {
	if !cfg.Kafka.Enabled {
		return kafka.NoopPublisher{}
	}
	return kafka.NewPublisher(&kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.OrderEventsTopic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, log)
}

// Run — запускает HTTP-сервер и консьюмера и ждёт отмены ctx или первой
// фоновой ошибки, после чего останавливает оба.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	a.stop(ctx)
	return nil
}

// stop — HTTP-сервер дорабатывает активные запросы не дольше gracefulTimeout
// (5s по умолчанию), затем закрывается консьюмер.
func (a *App) stop(ctx context.Context) {
	timeout := a.gracefulTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}
	a.Logger.Infof(ctx, "service stopped")
}
