package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskerai/internal/rbac"
	"taskerai/internal/sweeper"
	"taskerai/internal/transport/http/ez"
)

type cleanupModule struct {
	sweeper    *sweeper.Service
	defaultTTL time.Duration
}

func (m *cleanupModule) Priority() int { return 70 }

func (m *cleanupModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	// 按需触发一次清扫；周期执行由 cmd/sweeper 负责
	type cleanQ struct {
		Duration int `form:"duration"` // 分钟，缺省用配置 TTL
	}
	type cleanOut struct {
		Deleted int64 `json:"deleted"`
	}
	ez.Register(e, ez.Action[cleanQ, cleanOut]{
		Method: http.MethodPost,
		Path:   "/cleanup/pending-users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []string{string(rbac.RoleOwner)},
		Handler: func(c *gin.Context, in *cleanQ) (cleanOut, error) {
			ttl := m.defaultTTL
			if in.Duration > 0 {
				ttl = time.Duration(in.Duration) * time.Minute
			}
			n, err := m.sweeper.Sweep(c, ttl)
			if err != nil {
				return cleanOut{}, ez.Internal("sweep failed", err)
			}
			return cleanOut{Deleted: n}, nil
		},
	})
}
