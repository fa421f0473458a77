package sweeper

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskerai/internal/domain"
)

var (
	sweepRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pending_sweep_runs_total",
		Help: "Count of pending-user sweep passes",
	})
	sweepDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pending_sweep_deleted_total",
		Help: "Count of stale pending users deleted",
	})
)

func init() { prometheus.MustRegister(sweepRuns, sweepDeleted) }

// Service 无状态清扫：删除超过 TTL 仍未激活的账号。
// 没有进程内定时器状态，由外部（cmd/sweeper 或清理端点）触发，可重复执行。
type Service struct {
	users domain.UserRepository
	log   *zap.Logger
}

func New(users domain.UserRepository, log *zap.Logger) *Service {
	return &Service{users: users, log: log}
}

// Sweep 单次清扫，幂等：同一批过期行第二次删除是空操作
func (s *Service) Sweep(ctx context.Context, ttl time.Duration) (int64, error) {
	sweepRuns.Inc()
	before := time.Now().Add(-ttl)
	n, err := s.users.DeleteStalePending(ctx, before)
	if err != nil {
		s.log.Error("pending sweep failed", zap.Error(err))
		return 0, err
	}
	sweepDeleted.Add(float64(n))
	if n > 0 {
		s.log.Info("pending sweep done",
			zap.Int64("deleted", n),
			zap.Duration("ttl", ttl),
		)
	}
	return n, nil
}

// Run 周期循环，ctx 取消即退出
func (s *Service) Run(ctx context.Context, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.Sweep(ctx, ttl)
		}
	}
}
