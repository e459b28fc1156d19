package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/api"
	"github.com/bellacita/salon-api/internal/auth"
	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
	"github.com/bellacita/salon-api/internal/config"
	"github.com/bellacita/salon-api/internal/db"
	"github.com/bellacita/salon-api/internal/logger"
	"github.com/bellacita/salon-api/internal/notify"
	"github.com/bellacita/salon-api/internal/payments"
	redisclient "github.com/bellacita/salon-api/internal/redis"
	"github.com/bellacita/salon-api/internal/reports"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		zlog.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	zlog.Info("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		zlog.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			zlog.Warn("error closing redis", zap.Error(err))
		}
	}()
	zlog.Info("connected to Redis")

	reg := prometheus.DefaultRegisterer

	bookingRepo := booking.NewPgRepository(pgPool)
	catalogRepo := catalog.NewPgRepository(pgPool)
	paymentRepo := payments.NewPgRepository(pgPool)
	reportRepo := reports.NewRepository(pgPool)

	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL, cfg.LockWait)
	notifier := notify.NewLogNotifier(zlog)

	bookingSvc := booking.NewService(
		bookingRepo,
		catalogRepo,
		locker,
		notifier,
		booking.NewMetrics(reg),
		zlog,
	)
	paymentSvc := payments.NewService(paymentRepo, bookingSvc, zlog)
	authSvc := auth.NewService(bookingRepo, cfg.JWTSecret, cfg.TokenTTL, zlog)

	router := api.NewRouter(api.RouterConfig{
		Bookings:    bookingSvc,
		BookingRepo: bookingRepo,
		Catalog:     catalogRepo,
		Payments:    paymentSvc,
		Reports:     reportRepo,
		Auth:        authSvc,
		JWTSecret:   cfg.JWTSecret,
		PgPool:      pgPool,
		Redis:       rdb,
		Env:         cfg.Env,
		Version:     version,
		Log:         zlog,
		HTTPMetrics: api.NewHTTPMetrics(reg),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		zlog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("graceful shutdown failed", zap.Error(err))
	}

	zlog.Info("api-server stopped")
}
