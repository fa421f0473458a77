package service

import (
	"context"
	"time"

	"taskerai/internal/core/cache"
	"taskerai/internal/domain"
)

const statsCacheKey = "dashboard:stats"

type DashboardStats struct {
	TasksByStatus map[domain.TaskStatus]int64 `json:"tasksByStatus"`
	TotalTasks    int64                       `json:"totalTasks"`
	PendingUsers  int64                       `json:"pendingUsers"`
}

type DashboardService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewDashboardService(tasks domain.TaskRepository, users domain.UserRepository, c *cache.Cache, ttl time.Duration) *DashboardService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardService{tasks: tasks, users: users, cache: c, ttl: ttl}
}

func (s *DashboardService) load(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	pending, err := s.users.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TasksByStatus: byStatus,
		TotalTasks:    total,
		PendingUsers:  pending,
	}, nil
}

// Stats 短 TTL 缓存 + singleflight，统计口径允许轻微滞后
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.cache == nil {
		return s.load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, statsCacheKey, s.ttl, s.load)
}
