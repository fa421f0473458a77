package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskerai/internal/core/auth"
	"taskerai/internal/domain"
	"taskerai/internal/rbac"
	"taskerai/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	notifs domain.NotificationRepository
	jwter  *auth.JWTer
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, notifs domain.NotificationRepository, jwter *auth.JWTer, log *zap.Logger) *UserService {
	return &UserService{users: users, notifs: notifs, jwter: jwter, log: log}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *UserService) actor(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Signup 注册 → 待审：EMPLOYEE / 未验证 / 未激活，并通知 OWNER
func (s *UserService) Signup(ctx context.Context, email, name, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", ErrEmailTaken
	}

	u := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: utils.HashPassword(password),
		Role:         rbac.RoleEmployee,
		IsVerified:   false,
		Active:       false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwter.IssueVerify(u.ID)
	if err != nil {
		return nil, "", err
	}

	// 通知当前 OWNER，失败不影响注册
	if owner, err := s.users.FindFirstByRole(ctx, rbac.RoleOwner); err == nil && owner != nil {
		n := &domain.Notification{
			UserID:  owner.ID,
			Type:    domain.NotifyNewUserRequest,
			Payload: fmt.Sprintf("signup request from %s", u.Email),
		}
		if err := s.notifs.Create(ctx, n); err != nil {
			s.log.Warn("owner notification failed", zap.Error(err), zap.Uint("user", u.ID))
		}
	}

	return u, token, nil
}

// Verify 兑换确认令牌：isVerified=true，不代表 active
func (s *UserService) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwter.ParseVerify(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsVerified {
		if err := s.users.SetVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.IsVerified = true
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return "", nil, ErrNotVerified
	}
	if !u.Active {
		return "", nil, ErrNotActive
	}
	token, err := s.jwter.IssueAccess(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// AdminCreate 管理员直建账号：已验证、已激活
func (s *UserService) AdminCreate(ctx context.Context, actorID uint, email, name, password string, role rbac.Role) (*domain.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageUsers(actor.Role) {
		return nil, ErrForbidden
	}
	if !role.IsValid() || role == rbac.RoleOwner {
		return nil, ErrInvalidRole
	}
	email = normalizeEmail(email)
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	u := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: utils.HashPassword(password),
		Role:         role,
		IsVerified:   true,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Promote 角色晋升：仅 OWNER，禁自晋升、禁晋升为 OWNER、禁改动 OWNER
func (s *UserService) Promote(ctx context.Context, actorID, targetID uint, newRole rbac.Role) (*domain.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPromoteUsers(actor.Role) {
		return nil, ErrForbidden
	}
	if actorID == targetID {
		return nil, ErrSelfPromotion
	}
	if !rbac.CanPromoteTo(actor.Role, newRole) {
		return nil, ErrInvalidRole
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.Role == rbac.RoleOwner {
		return nil, ErrTargetIsOwner
	}
	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, err
	}
	target.Role = newRole
	s.log.Info("user promoted",
		zap.Uint("actor", actorID),
		zap.Uint("target", targetID),
		zap.String("role", string(newRole)),
	)
	return target, nil
}

// Approve 审批通过：active=false→true；重复审批是冲突，状态不变
func (s *UserService) Approve(ctx context.Context, actorID, targetID uint) (*domain.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPromoteUsers(actor.Role) {
		return nil, ErrForbidden
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.Active {
		return nil, ErrAlreadyApproved
	}
	if err := s.users.SetActive(ctx, targetID); err != nil {
		return nil, err
	}
	target.Active = true
	return target, nil
}

// Deny 拒绝：硬删除；OWNER 永不可被拒绝
func (s *UserService) Deny(ctx context.Context, actorID, targetID uint) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if !rbac.CanPromoteUsers(actor.Role) {
		return ErrForbidden
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.Role == rbac.RoleOwner {
		return ErrDenyOwner
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info("user denied", zap.Uint("actor", actorID), zap.Uint("target", targetID))
	return nil
}

func (s *UserService) ListPending(ctx context.Context, actorID uint) ([]domain.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPromoteUsers(actor.Role) {
		return nil, ErrForbidden
	}
	return s.users.ListPending(ctx)
}

// ListAssignable 可指派名单：等级不高于请求者的激活用户
func (s *UserService) ListAssignable(ctx context.Context, actorID uint) ([]domain.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.users.ListActiveByRoles(ctx, rbac.VisibleTo(actor.Role))
}

func (s *UserService) List(ctx context.Context, actorID uint, offset, limit int) ([]domain.User, int64, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !rbac.CanManageUsers(actor.Role) {
		return nil, 0, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, offset, limit)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
