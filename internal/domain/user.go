package domain

import (
	"context"
	"time"

	"taskerai/internal/rbac"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"` // 写入前统一小写
	Name         string    `gorm:"size:64" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         rbac.Role `gorm:"size:16;not null;default:EMPLOYEE" json:"role"`
	IsVerified   bool      `gorm:"not null;default:false" json:"isVerified"`
	Active       bool      `gorm:"not null;default:false" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserRepository 拒绝/清扫是硬删除，不走软删
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindFirstByRole(ctx context.Context, role rbac.Role) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	ListPending(ctx context.Context) ([]User, error)
	ListActiveByRoles(ctx context.Context, roles []rbac.Role) ([]User, error)
	UpdateRole(ctx context.Context, id uint, role rbac.Role) error
	SetVerified(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	DeleteStalePending(ctx context.Context, before time.Time) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
