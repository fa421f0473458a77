package service

import (
	"context"

	"taskerai/internal/domain"
)

type NotificationService struct {
	notifs domain.NotificationRepository
}

func NewNotificationService(notifs domain.NotificationRepository) *NotificationService {
	return &NotificationService{notifs: notifs}
}

func (s *NotificationService) List(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	return s.notifs.ListForUser(ctx, userID, limit)
}

// MarkRead 只能操作自己的通知
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	ok, err := s.notifs.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotifNotFound
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifs.CountUnread(ctx, userID)
}
