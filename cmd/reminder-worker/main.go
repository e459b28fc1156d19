package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
	"github.com/bellacita/salon-api/internal/config"
	"github.com/bellacita/salon-api/internal/db"
	"github.com/bellacita/salon-api/internal/logger"
	"github.com/bellacita/salon-api/internal/notify"
	redisclient "github.com/bellacita/salon-api/internal/redis"
)

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

	zlog.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval),
		zap.Duration("lead", cfg.ReminderLead),
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

	repo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL, cfg.LockWait)
	svc := booking.NewService(
		repo,
		catalog.NewPgRepository(pgPool),
		locker,
		notify.NewLogNotifier(zlog),
		nil,
		zlog,
	)

	// Run once at startup
	runOnce(rootCtx, svc, cfg.ReminderLead, zlog)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			zlog.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, cfg.ReminderLead, zlog)
		}
	}
}

func runOnce(ctx context.Context, svc *booking.Service, lead time.Duration, zlog *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	// Remind appointments whose date is lead away from now.
	targetDate := time.Now().Add(lead).Format("2006-01-02")

	start := time.Now()
	sent, err := svc.SendDueReminders(runCtx, targetDate)
	if err != nil {
		zlog.Error("reminder run error", zap.Error(err))
		return
	}

	zlog.Info("reminder run complete",
		zap.String("date", targetDate),
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)),
	)
}
