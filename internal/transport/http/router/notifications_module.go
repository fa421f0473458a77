package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskerai/internal/domain"
	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type notificationsModule struct {
	notifs *service.NotificationService
}

func (m *notificationsModule) Priority() int { return 50 }

func (m *notificationsModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	type listQ struct {
		Limit int `form:"limit,default=50"`
	}
	type listOut struct {
		Notifications []domain.Notification `json:"notifications"`
		Unread        int64                 `json:"unread"`
	}
	ez.Register(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/notifications",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			uid := c.GetUint("userId")
			ns, err := m.notifs.List(c, uid, in.Limit)
			if err != nil {
				return listOut{}, asErr(err)
			}
			unread, err := m.notifs.CountUnread(c, uid)
			if err != nil {
				return listOut{}, asErr(err)
			}
			return listOut{Notifications: ns, Unread: unread}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/notifications/:id/read",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.notifs.MarkRead(c, id, c.GetUint("userId")); err != nil {
				return nil, asErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
