package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskerai/internal/domain"
	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type messagesModule struct {
	msgs *service.MessageService
}

func (m *messagesModule) Priority() int { return 40 }

func (m *messagesModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	type channelIn struct {
		Name string `json:"name" binding:"required,max=64"`
	}
	ez.Register(e, ez.Action[channelIn, *domain.Channel]{
		Method: http.MethodPost,
		Path:   "/channels",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *channelIn) (*domain.Channel, error) {
			ch, err := m.msgs.CreateChannel(c, c.GetUint("userId"), in.Name)
			if err != nil {
				return nil, asErr(err)
			}
			return ch, nil
		},
	})

	type channelsOut struct {
		Channels []domain.Channel `json:"channels"`
	}
	ez.Register(e, ez.Action[struct{}, channelsOut]{
		Method: http.MethodGet,
		Path:   "/channels",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (channelsOut, error) {
			chs, err := m.msgs.ListChannels(c)
			if err != nil {
				return channelsOut{}, asErr(err)
			}
			return channelsOut{Channels: chs}, nil
		},
	})

	type postIn struct {
		ChannelID   *uint  `json:"channelId"   binding:"omitempty"`
		RecipientID *uint  `json:"recipientId" binding:"omitempty"`
		Body        string `json:"body"        binding:"required"`
	}
	ez.Register(e, ez.Action[postIn, *domain.Message]{
		Method: http.MethodPost,
		Path:   "/messages",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *postIn) (*domain.Message, error) {
			msg, err := m.msgs.Post(c, c.GetUint("userId"), in.ChannelID, in.RecipientID, in.Body)
			if err != nil {
				return nil, asErr(err)
			}
			return msg, nil
		},
	})

	// 频道消息或与某人的私信记录，二选一
	type listQ struct {
		Channel uint `form:"channel"`
		Peer    uint `form:"peer"`
		Limit   int  `form:"limit,default=50"`
	}
	type listOut struct {
		Messages []domain.Message `json:"messages"`
	}
	ez.Register(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/messages",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if (in.Channel == 0) == (in.Peer == 0) {
				return listOut{}, ez.BadRequest("pass exactly one of channel or peer")
			}
			var msgs []domain.Message
			var err error
			if in.Channel != 0 {
				msgs, err = m.msgs.ListChannelMessages(c, in.Channel, in.Limit)
			} else {
				msgs, err = m.msgs.ListDirectMessages(c, c.GetUint("userId"), in.Peer, in.Limit)
			}
			if err != nil {
				return listOut{}, asErr(err)
			}
			return listOut{Messages: msgs}, nil
		},
	})
}
