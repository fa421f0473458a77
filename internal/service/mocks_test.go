package service_test

import (
	"context"
	"time"

	"taskerai/internal/domain"
	"taskerai/internal/rbac"
)

// func 字段式 mock：未设置的方法返回零值

type mockUserRepo struct {
	CreateFn             func(ctx context.Context, u *domain.User) error
	FindByIDFn           func(ctx context.Context, id uint) (*domain.User, error)
	FindByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	FindFirstByRoleFn    func(ctx context.Context, role rbac.Role) (*domain.User, error)
	ListFn               func(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	ListPendingFn        func(ctx context.Context) ([]domain.User, error)
	ListActiveByRolesFn  func(ctx context.Context, roles []rbac.Role) ([]domain.User, error)
	UpdateRoleFn         func(ctx context.Context, id uint, role rbac.Role) error
	SetVerifiedFn        func(ctx context.Context, id uint) error
	SetActiveFn          func(ctx context.Context, id uint) error
	DeleteFn             func(ctx context.Context, id uint) error
	DeleteStalePendingFn func(ctx context.Context, before time.Time) (int64, error)
	CountPendingFn       func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFn != nil {
		return m.FindByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindFirstByRole(ctx context.Context, role rbac.Role) (*domain.User, error) {
	if m.FindFirstByRoleFn != nil {
		return m.FindFirstByRoleFn(ctx, role)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockUserRepo) ListPending(ctx context.Context) ([]domain.User, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) ListActiveByRoles(ctx context.Context, roles []rbac.Role) ([]domain.User, error) {
	if m.ListActiveByRolesFn != nil {
		return m.ListActiveByRolesFn(ctx, roles)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uint, role rbac.Role) error {
	if m.UpdateRoleFn != nil {
		return m.UpdateRoleFn(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepo) SetVerified(ctx context.Context, id uint) error {
	if m.SetVerifiedFn != nil {
		return m.SetVerifiedFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id uint) error {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteStalePendingFn != nil {
		return m.DeleteStalePendingFn(ctx, before)
	}
	return 0, nil
}

func (m *mockUserRepo) CountPending(ctx context.Context) (int64, error) {
	if m.CountPendingFn != nil {
		return m.CountPendingFn(ctx)
	}
	return 0, nil
}

type mockNotifRepo struct {
	CreateFn      func(ctx context.Context, n *domain.Notification) error
	ListForUserFn func(ctx context.Context, userID uint, limit int) ([]domain.Notification, error)
	MarkReadFn    func(ctx context.Context, id, userID uint) (bool, error)
	CountUnreadFn func(ctx context.Context, userID uint) (int64, error)
}

func (m *mockNotifRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *mockNotifRepo) ListForUser(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockNotifRepo) MarkRead(ctx context.Context, id, userID uint) (bool, error) {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id, userID)
	}
	return false, nil
}

func (m *mockNotifRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, userID)
	}
	return 0, nil
}

type mockMsgRepo struct {
	CreateChannelFn       func(ctx context.Context, ch *domain.Channel) error
	FindChannelByIDFn     func(ctx context.Context, id uint) (*domain.Channel, error)
	ListChannelsFn        func(ctx context.Context) ([]domain.Channel, error)
	CreateFn              func(ctx context.Context, m *domain.Message) error
	ListChannelMessagesFn func(ctx context.Context, channelID uint, limit int) ([]domain.Message, error)
	ListDirectMessagesFn  func(ctx context.Context, a, b uint, limit int) ([]domain.Message, error)
}

func (m *mockMsgRepo) CreateChannel(ctx context.Context, ch *domain.Channel) error {
	if m.CreateChannelFn != nil {
		return m.CreateChannelFn(ctx, ch)
	}
	return nil
}

func (m *mockMsgRepo) FindChannelByID(ctx context.Context, id uint) (*domain.Channel, error) {
	if m.FindChannelByIDFn != nil {
		return m.FindChannelByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMsgRepo) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	if m.ListChannelsFn != nil {
		return m.ListChannelsFn(ctx)
	}
	return nil, nil
}

func (m *mockMsgRepo) Create(ctx context.Context, msg *domain.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	return nil
}

func (m *mockMsgRepo) ListChannelMessages(ctx context.Context, channelID uint, limit int) ([]domain.Message, error) {
	if m.ListChannelMessagesFn != nil {
		return m.ListChannelMessagesFn(ctx, channelID, limit)
	}
	return nil, nil
}

func (m *mockMsgRepo) ListDirectMessages(ctx context.Context, a, b uint, limit int) ([]domain.Message, error) {
	if m.ListDirectMessagesFn != nil {
		return m.ListDirectMessagesFn(ctx, a, b, limit)
	}
	return nil, nil
}

type mockTaskRepo struct {
	CreateFn        func(ctx context.Context, t *domain.Task) error
	FindByIDFn      func(ctx context.Context, id uint) (*domain.Task, error)
	ListFn          func(ctx context.Context, f domain.TaskFilter) ([]domain.Task, int64, error)
	UpdateFn        func(ctx context.Context, t *domain.Task) error
	UpdateStatusFn  func(ctx context.Context, id uint, s domain.TaskStatus) error
	SoftDeleteFn    func(ctx context.Context, id uint) error
	AddDependencyFn func(ctx context.Context, taskID, blockedByID uint) error
	ListWithDepsFn  func(ctx context.Context) ([]domain.Task, map[uint][]uint, error)
	CountByStatusFn func(ctx context.Context) (map[domain.TaskStatus]int64, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, t)
	}
	return nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id uint, s domain.TaskStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s)
	}
	return nil
}

func (m *mockTaskRepo) SoftDelete(ctx context.Context, id uint) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockTaskRepo) AddDependency(ctx context.Context, taskID, blockedByID uint) error {
	if m.AddDependencyFn != nil {
		return m.AddDependencyFn(ctx, taskID, blockedByID)
	}
	return nil
}

func (m *mockTaskRepo) ListWithDeps(ctx context.Context) ([]domain.Task, map[uint][]uint, error) {
	if m.ListWithDepsFn != nil {
		return m.ListWithDepsFn(ctx)
	}
	return nil, nil, nil
}

func (m *mockTaskRepo) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, nil
}
