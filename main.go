package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/avril-io/storefront-api/configs"
	appcatalog "github.com/avril-io/storefront-api/internal/application/catalog"
	apporder "github.com/avril-io/storefront-api/internal/application/order"
	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	domorder "github.com/avril-io/storefront-api/internal/domain/order"
	"github.com/avril-io/storefront-api/internal/infrastructure/httpapi"
	"github.com/avril-io/storefront-api/internal/infrastructure/memory"
	"github.com/avril-io/storefront-api/internal/infrastructure/mysql"
	"github.com/avril-io/storefront-api/internal/infrastructure/rediscache"
	"github.com/avril-io/storefront-api/internal/pkg/logging"
)

// store is the persistence surface the wiring needs: both repositories plus
// the atomic runner for fulfillment.
type store interface {
	Products() domcatalog.Repository
	Orders() domorder.Repository
	Run(ctx context.Context, fn func(ctx context.Context, products domcatalog.Repository, orders domorder.Repository) error) error
}

func main() {
	cfg, err := configs.Load(getenvDefault("STOREFRONT_CONFIG_DIR", "./configs"), getenvDefault("STOREFRONT_ENV", "dev"))
	if err != nil {
		panic(err)
	}

	baseLogger := logging.MustNewLogger(cfg.App.Name, cfg.App.Env, cfg.Log.Level, cfg.Log.File)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	usecaseRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usecase_requests_total",
			Help: "Total number of use case invocations.",
		},
		[]string{"use_case", "outcome"},
	)
	usecaseDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "usecase_duration_seconds",
			Help:    "Duration of use case execution in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"use_case"},
	)
	prometheus.MustRegister(usecaseRequests, usecaseDurations)

	var st store
	if cfg.MySQL.DSN != "" {
		dbStore, err := mysql.Open(mysql.Config{
			DSN:             cfg.MySQL.DSN,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		})
		if err != nil {
			baseLogger.Fatal("mysql_open_failed", zap.Error(err))
		}
		defer func() { _ = dbStore.Close() }()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := dbStore.Migrate(migrateCtx); err != nil {
			cancel()
			baseLogger.Fatal("mysql_migrate_failed", zap.Error(err))
		}
		cancel()
		st = dbStore
		baseLogger.Info("store_mysql")
	} else {
		st = memory.NewStore()
		baseLogger.Info("store_memory")
	}

	var idempotency apporder.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer func() { _ = rdb.Close() }()
		idempotency = rediscache.NewIdempotencyStore(rdb, cfg.Idempotency.TTL)
		baseLogger.Info("idempotency_redis", zap.String("addr", cfg.Redis.Addr))
	}

	catalogService := appcatalog.NewService(st.Products())
	orderService := apporder.NewService(st.Orders(), st.Products(), idempotency)
	processOrder := apporder.NewProcessOrderUseCase(st, st.Orders(), usecaseRequests, usecaseDurations)

	handler := httpapi.NewHandler(catalogService, orderService, processOrder)
	router := httpapi.NewRouter(handler, baseLogger)

	server := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
