package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskerai/internal/domain"
	"taskerai/internal/rbac"
)

type TaskService struct {
	tasks  domain.TaskRepository
	users  domain.UserRepository
	notifs domain.NotificationRepository
	log    *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, notifs domain.NotificationRepository, log *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, notifs: notifs, log: log}
}

type TaskInput struct {
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
	AssigneeID  *uint
}

func (s *TaskService) actor(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// checkAssignee 指派校验：EMPLOYEE 只能派给自己；不能派给等级更高的人
func (s *TaskService) checkAssignee(ctx context.Context, actor *domain.User, assigneeID uint) (*domain.User, error) {
	if !rbac.CanAssignTask(actor.Role, actor.ID, assigneeID) {
		return nil, ErrForbidden
	}
	assignee, err := s.users.FindByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil || !assignee.Active {
		return nil, ErrBadAssignee
	}
	if rbac.Rank(assignee.Role) > rbac.Rank(actor.Role) {
		return nil, ErrForbidden
	}
	return assignee, nil
}

func (s *TaskService) notifyAssigned(ctx context.Context, t *domain.Task, assigneeID uint) {
	if assigneeID == t.CreatorID {
		return
	}
	n := &domain.Notification{
		UserID:  assigneeID,
		Type:    domain.NotifyTaskAssigned,
		Payload: fmt.Sprintf("task #%d: %s", t.ID, t.Title),
	}
	if err := s.notifs.Create(ctx, n); err != nil {
		s.log.Warn("assignment notification failed", zap.Error(err), zap.Uint("task", t.ID))
	}
}

func (s *TaskService) Create(ctx context.Context, actorID uint, in TaskInput) (*domain.Task, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if in.Priority < 1 || in.Priority > 5 {
		in.Priority = 3
	}
	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskTodo,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatorID:   actorID,
	}
	if in.AssigneeID != nil {
		if _, err := s.checkAssignee(ctx, actor, *in.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = in.AssigneeID
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if t.AssigneeID != nil {
		s.notifyAssigned(ctx, t, *t.AssigneeID)
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, int64, error) {
	return s.tasks.List(ctx, f)
}

// Update 创建者或管理角色可改；换指派人要重新过校验
func (s *TaskService) Update(ctx context.Context, actorID, taskID uint, in TaskInput) (*domain.Task, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.CreatorID != actorID && !rbac.CanManageUsers(actor.Role) {
		return nil, ErrForbidden
	}
	reassigned := false
	if in.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *in.AssigneeID) {
		if _, err := s.checkAssignee(ctx, actor, *in.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = in.AssigneeID
		reassigned = true
	}
	if in.Title != "" {
		t.Title = in.Title
	}
	if in.Description != "" {
		t.Description = in.Description
	}
	if in.Priority >= 1 && in.Priority <= 5 {
		t.Priority = in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	if reassigned {
		s.notifyAssigned(ctx, t, *t.AssigneeID)
	}
	return t, nil
}

// UpdateStatus 指派人、创建者或管理角色
func (s *TaskService) UpdateStatus(ctx context.Context, actorID, taskID uint, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	allowed := t.CreatorID == actorID ||
		(t.AssigneeID != nil && *t.AssigneeID == actorID) ||
		rbac.CanManageUsers(actor.Role)
	if !allowed {
		return nil, ErrForbidden
	}
	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, err
	}
	t.Status = status
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, actorID, taskID uint) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if t.CreatorID != actorID && !rbac.CanManageUsers(actor.Role) {
		return ErrForbidden
	}
	return s.tasks.SoftDelete(ctx, taskID)
}

// AddDependency taskID 被 blockedByID 阻塞
func (s *TaskService) AddDependency(ctx context.Context, actorID, taskID, blockedByID uint) error {
	if taskID == blockedByID {
		return ErrSelfDependency
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.Get(ctx, blockedByID); err != nil {
		return err
	}
	if t.CreatorID != actorID && !rbac.CanManageUsers(actor.Role) {
		return ErrForbidden
	}
	return s.tasks.AddDependency(ctx, taskID, blockedByID)
}

type OrderedTasks struct {
	Tasks    []domain.Task `json:"tasks"`
	HadCycle bool          `json:"hadCycle"`
}

// Ordered 依赖序 + 启发式优先级的任务列表
func (s *TaskService) Ordered(ctx context.Context) (*OrderedTasks, error) {
	tasks, deps, err := s.tasks.ListWithDeps(ctx)
	if err != nil {
		return nil, err
	}
	order, hadCycle := OrderTasks(tasks, deps, time.Now())
	byID := make(map[uint]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := &OrderedTasks{Tasks: make([]domain.Task, 0, len(order)), HadCycle: hadCycle}
	for _, id := range order {
		out.Tasks = append(out.Tasks, byID[id])
	}
	if hadCycle {
		s.log.Warn("dependency cycle detected in task graph")
	}
	return out, nil
}
