package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotifyNewUserRequest NotificationType = "NEW_USER_REQUEST"
	NotifyTaskAssigned   NotificationType = "TASK_ASSIGNED"
	NotifyNewMessage     NotificationType = "NEW_MESSAGE"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"index;not null" json:"userId"`
	Type      NotificationType `gorm:"size:32;not null" json:"type"`
	Payload   string           `gorm:"size:255" json:"payload"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uint) (bool, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
}
