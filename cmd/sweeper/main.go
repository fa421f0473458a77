package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskerai/internal/core/config"
	"taskerai/internal/core/database"
	"taskerai/internal/core/logger"
	"taskerai/internal/core/server"
	"taskerai/internal/repo"
	"taskerai/internal/sweeper"
)

// 待审账号清扫进程：无进程内共享定时器状态，可随时重启或并行跑，
// 清扫本身幂等。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	svc := sweeper.New(repo.NewUserRepo(db), log)

	ttl := time.Duration(cfg.Sweep.TTLMin) * time.Minute
	interval := time.Duration(cfg.Sweep.IntervalMin) * time.Minute

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 健康检查小引擎
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, server.NewHealthEngine(log), 5*time.Second, 10*time.Second, 60*time.Second)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("health server FAILED", zap.Error(err))
		}
	}()

	log.Info("sweeper started",
		zap.Duration("ttl", ttl),
		zap.Duration("interval", interval),
		zap.String("health", addr),
	)

	// 启动先清一轮，再进入周期循环
	if _, err := svc.Sweep(ctx, ttl); err != nil {
		log.Warn("initial sweep failed", zap.Error(err))
	}
	svc.Run(ctx, interval, ttl)

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)
	log.Info("sweeper stopped gracefully")
}
