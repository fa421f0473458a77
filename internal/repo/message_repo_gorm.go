package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskerai/internal/domain"
)

type MessageRepo struct{ db *gorm.DB }

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) CreateChannel(ctx context.Context, ch *domain.Channel) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

func (r *MessageRepo) FindChannelByID(ctx context.Context, id uint) (*domain.Channel, error) {
	var ch domain.Channel
	err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ch, err
}

func (r *MessageRepo) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	var chs []domain.Channel
	err := r.db.WithContext(ctx).Order("name asc").Find(&chs).Error
	return chs, err
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepo) ListChannelMessages(ctx context.Context, channelID uint, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at desc").Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// ListDirectMessages 双向私信记录
func (r *MessageRepo) ListDirectMessages(ctx context.Context, a, b uint, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at desc").Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
