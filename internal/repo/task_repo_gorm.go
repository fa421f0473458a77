package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskerai/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepo) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *TaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssigneeID != 0 {
		q = q.Where("assignee_id = ?", f.AssigneeID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var tasks []domain.Task
	if err := q.Order("created_at desc").Offset(f.Offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id uint, s domain.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", id).
		Update("status", s).Error
}

func (r *TaskRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{}).Error
}

func (r *TaskRepo) AddDependency(ctx context.Context, taskID, blockedByID uint) error {
	return r.db.WithContext(ctx).Create(&domain.TaskDependency{
		TaskID:      taskID,
		BlockedByID: blockedByID,
	}).Error
}

func (r *TaskRepo) ListWithDeps(ctx context.Context) ([]domain.Task, map[uint][]uint, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, nil, err
	}
	var edges []domain.TaskDependency
	if err := r.db.WithContext(ctx).Find(&edges).Error; err != nil {
		return nil, nil, err
	}
	deps := make(map[uint][]uint, len(edges))
	for _, e := range edges {
		deps[e.TaskID] = append(deps[e.TaskID], e.BlockedByID)
	}
	return tasks, deps, nil
}

func (r *TaskRepo) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	type row struct {
		Status domain.TaskStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.TaskStatus]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
