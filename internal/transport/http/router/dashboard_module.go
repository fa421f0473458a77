package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type dashboardModule struct {
	stats *service.DashboardService
}

func (m *dashboardModule) Priority() int { return 60 }

func (m *dashboardModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.Register(e, ez.Action[struct{}, *service.DashboardStats]{
		Method: http.MethodGet,
		Path:   "/dashboard/stats",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.DashboardStats, error) {
			st, err := m.stats.Stats(c)
			if err != nil {
				return nil, asErr(err)
			}
			return st, nil
		},
	})
}
