package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:191;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"size:16;not null;default:TODO" json:"status"`
	Priority    int            `gorm:"not null;default:3" json:"priority"` // 1(低) .. 5(高)
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	CreatorID   uint           `gorm:"index;not null" json:"creatorId"`
	AssigneeID  *uint          `gorm:"index" json:"assigneeId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }

// TaskDependency 一条 blocked-by 边：TaskID 被 BlockedByID 阻塞
type TaskDependency struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TaskID      uint `gorm:"index:idx_task_dep,unique;not null" json:"taskId"`
	BlockedByID uint `gorm:"index:idx_task_dep,unique;not null" json:"blockedById"`
}

func (TaskDependency) TableName() string { return "task_dependencies" }

type TaskFilter struct {
	Status     TaskStatus
	AssigneeID uint
	Offset     int
	Limit      int
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uint) (*Task, error)
	List(ctx context.Context, f TaskFilter) ([]Task, int64, error)
	Update(ctx context.Context, t *Task) error
	UpdateStatus(ctx context.Context, id uint, s TaskStatus) error
	SoftDelete(ctx context.Context, id uint) error
	AddDependency(ctx context.Context, taskID, blockedByID uint) error
	// ListWithDeps 返回全部未删任务与 taskID -> 阻塞它的任务 ID 列表
	ListWithDeps(ctx context.Context) ([]Task, map[uint][]uint, error)
	CountByStatus(ctx context.Context) (map[TaskStatus]int64, error)
}
