package domain

import (
	"context"
	"time"
)

type Channel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatorID uint      `gorm:"not null" json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Channel) TableName() string { return "channels" }

// Message 频道消息或私信，二选一：ChannelID / RecipientID
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"index;not null" json:"senderId"`
	ChannelID   *uint     `gorm:"index" json:"channelId,omitempty"`
	RecipientID *uint     `gorm:"index" json:"recipientId,omitempty"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

type MessageRepository interface {
	CreateChannel(ctx context.Context, ch *Channel) error
	FindChannelByID(ctx context.Context, id uint) (*Channel, error)
	ListChannels(ctx context.Context) ([]Channel, error)
	Create(ctx context.Context, m *Message) error
	ListChannelMessages(ctx context.Context, channelID uint, limit int) ([]Message, error)
	ListDirectMessages(ctx context.Context, a, b uint, limit int) ([]Message, error)
}
