package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fjod/go_orders/internal/catalog"
	"github.com/fjod/go_orders/internal/config"
	"github.com/fjod/go_orders/internal/domain"
	"github.com/fjod/go_orders/internal/events"
	h "github.com/fjod/go_orders/internal/http"
	"github.com/fjod/go_orders/internal/ledger"
	applog "github.com/fjod/go_orders/internal/logger"
	"github.com/fjod/go_orders/internal/payment"
	"github.com/fjod/go_orders/internal/pricing"
	"github.com/fjod/go_orders/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := applog.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	mem := catalog.NewMemoryCatalog()
	seedDemoProducts(logg, mem)

	var cat catalog.Catalog = mem
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logg.Warn("redis unreachable, product cache disabled",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cat = catalog.NewCachedCatalog(mem, client, logg)
			logg.Info("product cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	led := ledger.NewMemoryLedger(logg, mem)
	seedDemoStock(logg, mem, led)

	gw := payment.NewInProcessGateway()
	gw.DeclineOver = cfg.PaymentDeclineOver

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logg)
		logg.Info("kafka publisher enabled",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer pub.Close()

	policy := pricing.Policy{
		DiscountThreshold: cfg.DiscountThreshold,
		DiscountRate:      cfg.DiscountRate,
	}

	svc := service.New(cat, led, gw, policy, pub, service.Config{MaxCartLines: cfg.MaxCartLines}, logg)

	router := h.NewRouter(
		h.NewCartHandler(svc, logg),
		h.NewOrderHandler(svc, logg),
		h.NewProductHandler(cat, logg),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Stale pending orders are only expired by this sweep, never on read.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go maintenanceSweep(sweepCtx, svc, cfg.PendingOrderTTL, logg)

	go func() {
		logg.Info("orders service starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Fatal("forced shutdown", zap.Error(err))
	}
	logg.Info("server exited")
}

func maintenanceSweep(ctx context.Context, svc *service.OrderService, ttl time.Duration, logg *zap.Logger) {
	interval := ttl / 10
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.ExpireStaleOrders(ctx, ttl); n > 0 {
				logg.Info("expired stale orders", zap.Int("count", n))
			}
			svc.MarkIdleCarts(2 * ttl)
		}
	}
}

func seedDemoProducts(logg *zap.Logger, cat *catalog.MemoryCatalog) {
	products := []domain.Product{
		{ID: 1, Name: "Laptop", Description: "14-inch ultrabook", Price: 1299.99, Category: "electronics", Stock: 25},
		{ID: 2, Name: "Wireless Mouse", Description: "Bluetooth, silent click", Price: 29.99, Category: "electronics", Stock: 200},
		{ID: 3, Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 89.99, Category: "electronics", Stock: 80},
		{ID: 4, Name: "Standing Desk", Description: "Electric, dual motor", Price: 449.00, Category: "furniture", Stock: 12},
		{ID: 5, Name: "Desk Lamp", Description: "LED, adjustable warmth", Price: 39.50, Category: "furniture", Stock: 150},
	}
	for _, p := range products {
		if err := cat.AddProduct(p); err != nil {
			logg.Fatal("seed product", zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
	logg.Info("seeded demo catalog", zap.Int("products", len(products)))
}

func seedDemoStock(logg *zap.Logger, cat *catalog.MemoryCatalog, led *ledger.MemoryLedger) {
	products, err := cat.ListProducts(context.Background())
	if err != nil {
		logg.Fatal("list products for stock seed", zap.Error(err))
	}
	for _, p := range products {
		if err := led.SetStock(p.ID, p.Stock); err != nil {
			logg.Fatal("seed stock", zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
}
