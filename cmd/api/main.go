package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskerai/internal/core/auth"
	"taskerai/internal/core/cache"
	"taskerai/internal/core/config"
	"taskerai/internal/core/database"
	"taskerai/internal/core/logger"
	"taskerai/internal/core/server"
	"taskerai/internal/domain"
	"taskerai/internal/repo"
	"taskerai/internal/service"
	"taskerai/internal/sweeper"
	"taskerai/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Task{},
			&domain.TaskDependency{},
			&domain.Channel{},
			&domain.Message{},
			&domain.Notification{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT：access 登录态 + verify 邮箱确认
	jwter := &auth.JWTer{
		Secret:    []byte(cfg.JWT.Secret),
		Issuer:    cfg.JWT.Issuer,
		AccessTTL: time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		VerifyTTL: time.Duration(cfg.JWT.VerifyTokenTTLHour) * time.Hour,
	}

	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	userRepo := repo.NewUserRepo(db)
	taskRepo := repo.NewTaskRepo(db)
	msgRepo := repo.NewMessageRepo(db)
	notifRepo := repo.NewNotificationRepo(db)

	sweepTTL := time.Duration(cfg.Sweep.TTLMin) * time.Minute
	deps := router.Deps{
		Users:     service.NewUserService(userRepo, notifRepo, jwter, log),
		Tasks:     service.NewTaskService(taskRepo, userRepo, notifRepo, log),
		Messages:  service.NewMessageService(msgRepo, userRepo, notifRepo, log),
		Notifs:    service.NewNotificationService(notifRepo),
		Dashboard: service.NewDashboardService(taskRepo, userRepo, rdb, 30*time.Second),
		Sweeper:   sweeper.New(userRepo, log),
		SweepTTL:  sweepTTL,
		JWTer:     jwter,
	}

	r := router.NewAPIEngine(log, deps)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.Rotate.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
