package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskerai/internal/domain"
	"taskerai/internal/rbac"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

// FindFirstByRole 用于按角色找 OWNER（通知收件人）
func (r *UserRepo) FindFirstByRole(ctx context.Context, role rbac.Role) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id asc").First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) ListPending(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ?", false).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}

func (r *UserRepo) ListActiveByRoles(ctx context.Context, roles []rbac.Role) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ? AND role IN ?", true, roles).
		Order("name asc").
		Find(&users).Error
	return users, err
}

// UpdateRole 单列原子更新，没有部分写入
func (r *UserRepo) UpdateRole(ctx context.Context, id uint, role rbac.Role) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *UserRepo) SetVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("is_verified", true).Error
}

func (r *UserRepo) SetActive(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("active", true).Error
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

// DeleteStalePending 清扫：删除 before 之前创建且仍未激活的账号，幂等
func (r *UserRepo) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("active = ? AND created_at < ?", false, before).
		Delete(&domain.User{})
	return res.RowsAffected, res.Error
}

func (r *UserRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("active = ?", false).
		Count(&n).Error
	return n, err
}
