package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskerai/internal/domain"
	"taskerai/internal/rbac"
)

type MessageService struct {
	msgs   domain.MessageRepository
	users  domain.UserRepository
	notifs domain.NotificationRepository
	log    *zap.Logger
}

func NewMessageService(msgs domain.MessageRepository, users domain.UserRepository, notifs domain.NotificationRepository, log *zap.Logger) *MessageService {
	return &MessageService{msgs: msgs, users: users, notifs: notifs, log: log}
}

// CreateChannel 建频道：管理角色
func (s *MessageService) CreateChannel(ctx context.Context, actorID uint, name string) (*domain.Channel, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}
	if !rbac.CanManageUsers(actor.Role) {
		return nil, ErrForbidden
	}
	ch := &domain.Channel{Name: strings.TrimSpace(name), CreatorID: actorID}
	if err := s.msgs.CreateChannel(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *MessageService) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return s.msgs.ListChannels(ctx)
}

// Post 频道消息或私信，二选一
func (s *MessageService) Post(ctx context.Context, senderID uint, channelID, recipientID *uint, body string) (*domain.Message, error) {
	if (channelID == nil) == (recipientID == nil) {
		return nil, ErrBadMessage
	}
	m := &domain.Message{SenderID: senderID, Body: body}
	switch {
	case channelID != nil:
		ch, err := s.msgs.FindChannelByID(ctx, *channelID)
		if err != nil {
			return nil, err
		}
		if ch == nil {
			return nil, ErrChannelNotFound
		}
		m.ChannelID = channelID
	default:
		rcpt, err := s.users.FindByID(ctx, *recipientID)
		if err != nil {
			return nil, err
		}
		if rcpt == nil || !rcpt.Active {
			return nil, ErrUserNotFound
		}
		m.RecipientID = recipientID
	}
	if err := s.msgs.Create(ctx, m); err != nil {
		return nil, err
	}
	if m.RecipientID != nil {
		n := &domain.Notification{
			UserID:  *m.RecipientID,
			Type:    domain.NotifyNewMessage,
			Payload: fmt.Sprintf("message from user #%d", senderID),
		}
		if err := s.notifs.Create(ctx, n); err != nil {
			s.log.Warn("message notification failed", zap.Error(err))
		}
	}
	return m, nil
}

func (s *MessageService) ListChannelMessages(ctx context.Context, channelID uint, limit int) ([]domain.Message, error) {
	ch, err := s.msgs.FindChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	return s.msgs.ListChannelMessages(ctx, channelID, limit)
}

func (s *MessageService) ListDirectMessages(ctx context.Context, actorID, peerID uint, limit int) ([]domain.Message, error) {
	return s.msgs.ListDirectMessages(ctx, actorID, peerID, limit)
}
