package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskerai/internal/core/auth"
	"taskerai/internal/domain"
	"taskerai/internal/rbac"
	"taskerai/internal/service"
	"taskerai/internal/sweeper"
	"taskerai/internal/transport/http/router"
	"taskerai/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

// ---- 内存版用户仓库 ----

type memUserRepo struct {
	seq   uint
	users map[uint]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*domain.User{}}
}

func (m *memUserRepo) add(u domain.User) *domain.User {
	if u.ID == 0 {
		m.seq++
		u.ID = m.seq
	} else if u.ID > m.seq {
		m.seq = u.ID
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := u
	m.users[cp.ID] = &cp
	return &cp
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	m.seq++
	u.ID = m.seq
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindFirstByRole(_ context.Context, role rbac.Role) (*domain.User, error) {
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) List(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.User, 0, limit)
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		out = append(out, *m.users[id])
	}
	return out, int64(len(m.users)), nil
}

func (m *memUserRepo) ListPending(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if !u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUserRepo) ListActiveByRoles(_ context.Context, roles []rbac.Role) ([]domain.User, error) {
	allow := map[rbac.Role]bool{}
	for _, r := range roles {
		allow[r] = true
	}
	var out []domain.User
	for _, u := range m.users {
		if u.Active && allow[u.Role] {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id uint, role rbac.Role) error {
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *memUserRepo) SetVerified(_ context.Context, id uint) error {
	if u, ok := m.users[id]; ok {
		u.IsVerified = true
	}
	return nil
}

func (m *memUserRepo) SetActive(_ context.Context, id uint) error {
	if u, ok := m.users[id]; ok {
		u.Active = true
	}
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) DeleteStalePending(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, u := range m.users {
		if !u.Active && u.CreatedAt.Before(before) {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}

func (m *memUserRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, u := range m.users {
		if !u.Active {
			n++
		}
	}
	return n, nil
}

// ---- 只覆盖被测路径的任务仓库 ----

type stubTaskRepo struct {
	domain.TaskRepository
}

func (s *stubTaskRepo) FindByID(_ context.Context, _ uint) (*domain.Task, error) {
	return nil, nil
}

func (s *stubTaskRepo) ListWithDeps(_ context.Context) ([]domain.Task, map[uint][]uint, error) {
	return []domain.Task{
		{ID: 1, Title: "deploy", Priority: 3},
		{ID: 2, Title: "build", Priority: 3},
	}, map[uint][]uint{1: {2}}, nil
}

func (s *stubTaskRepo) CountByStatus(_ context.Context) (map[domain.TaskStatus]int64, error) {
	return map[domain.TaskStatus]int64{domain.TaskTodo: 2}, nil
}

type stubMsgRepo struct{ domain.MessageRepository }

type stubNotifRepo struct{ domain.NotificationRepository }

func (s *stubNotifRepo) Create(_ context.Context, _ *domain.Notification) error { return nil }

// ---- 测试环境 ----

type testEnv struct {
	r     *gin.Engine
	users *memUserRepo
	jwter *auth.JWTer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newMemUserRepo()
	users.add(domain.User{ID: 1, Email: "owner@example.com", PasswordHash: utils.HashPassword("ownerpass123"), Role: rbac.RoleOwner, IsVerified: true, Active: true})
	users.add(domain.User{ID: 2, Email: "manager@example.com", PasswordHash: utils.HashPassword("managerpw12"), Role: rbac.RoleManager, IsVerified: true, Active: true})
	users.add(domain.User{ID: 3, Email: "emp@example.com", PasswordHash: utils.HashPassword("employeepw1"), Role: rbac.RoleEmployee, IsVerified: true, Active: true})

	jwter := &auth.JWTer{Secret: []byte("router-test"), Issuer: "taskerai-test", AccessTTL: time.Hour, VerifyTTL: time.Hour}
	log := zap.NewNop()
	tasks := &stubTaskRepo{}
	notifs := &stubNotifRepo{}

	r := router.NewAPIEngine(log, router.Deps{
		Users:     service.NewUserService(users, notifs, jwter, log),
		Tasks:     service.NewTaskService(tasks, users, notifs, log),
		Messages:  service.NewMessageService(&stubMsgRepo{}, users, notifs, log),
		Notifs:    service.NewNotificationService(notifs),
		Dashboard: service.NewDashboardService(tasks, users, nil, time.Second),
		Sweeper:   sweeper.New(users, log),
		SweepTTL:  time.Hour,
		JWTer:     jwter,
	})
	return &testEnv{r: r, users: users, jwter: jwter}
}

func (e *testEnv) token(t *testing.T, id uint, role rbac.Role) string {
	t.Helper()
	tok, err := e.jwter.IssueAccess(id, role)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

// ---- 用例 ----

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// verify 令牌不是登录态
	vt, err := env.jwter.IssueVerify(1)
	require.NoError(t, err)
	code, _ = env.do(t, http.MethodGet, "/api/v1/me", vt, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignupLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, 1, rbac.RoleOwner)

	// 注册 → 待审
	code, env1 := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "new@example.com", "name": "New", "password": "longenough1",
	})
	require.Equal(t, http.StatusOK, code)
	var signup struct {
		User        struct{ ID uint }
		VerifyToken string
	}
	require.NoError(t, json.Unmarshal(env1.Data, &signup))
	require.NotZero(t, signup.User.ID)
	require.NotEmpty(t, signup.VerifyToken)

	// 未验证不能登录
	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@example.com", "password": "longenough1"})
	assert.Equal(t, http.StatusForbidden, code)

	// 验证邮箱
	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/verify", "", gin.H{"token": signup.VerifyToken})
	require.Equal(t, http.StatusOK, code)

	// 已验证但未审批，仍不能登录
	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@example.com", "password": "longenough1"})
	assert.Equal(t, http.StatusForbidden, code)

	// OWNER 审批
	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/approve", signup.User.ID), owner, nil)
	require.Equal(t, http.StatusOK, code)

	// 重复审批 → 冲突
	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/approve", signup.User.ID), owner, nil)
	assert.Equal(t, http.StatusConflict, code)

	// 登录成功，/me 可用
	code, env2 := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@example.com", "password": "longenough1"})
	require.Equal(t, http.StatusOK, code)
	var login struct{ Token string }
	require.NoError(t, json.Unmarshal(env2.Data, &login))

	code, env3 := env.do(t, http.MethodGet, "/api/v1/me", login.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct{ Email string }
	require.NoError(t, json.Unmarshal(env3.Data, &me))
	assert.Equal(t, "new@example.com", me.Email)

	// 重复邮箱注册 → 冲突
	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "new@example.com", "password": "longenough1"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestPromoteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, 1, rbac.RoleOwner)
	manager := env.token(t, 2, rbac.RoleManager)

	t.Run("owner promotes employee", func(t *testing.T) {
		code, e := env.do(t, http.MethodPost, "/api/v1/users/promote", owner, gin.H{"userId": 3, "newRole": "TEAM_LEAD"})
		require.Equal(t, http.StatusOK, code)
		var out struct {
			User struct{ Role string }
		}
		require.NoError(t, json.Unmarshal(e.Data, &out))
		assert.Equal(t, "TEAM_LEAD", out.User.Role)
	})

	t.Run("manager forbidden", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/users/promote", manager, gin.H{"userId": 3, "newRole": "MANAGER"})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("unknown role is a 400", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/users/promote", owner, gin.H{"userId": 3, "newRole": "SUPERVISOR"})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("promoting to OWNER is a 400", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/users/promote", owner, gin.H{"userId": 3, "newRole": "OWNER"})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("missing target is a 404", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/users/promote", owner, gin.H{"userId": 99, "newRole": "TEAM_LEAD"})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestPendingAndDeny(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, 1, rbac.RoleOwner)
	employee := env.token(t, 3, rbac.RoleEmployee)
	pending := env.users.add(domain.User{Email: "stale@example.com", Role: rbac.RoleEmployee})

	code, e := env.do(t, http.MethodGet, "/api/v1/users/pending", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Users []struct{ Email string }
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	require.Len(t, out.Users, 1)
	assert.Equal(t, "stale@example.com", out.Users[0].Email)

	code, _ = env.do(t, http.MethodGet, "/api/v1/users/pending", employee, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// 拒绝 → 硬删除
	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/deny", pending.ID), owner, nil)
	require.Equal(t, http.StatusOK, code)
	u, _ := env.users.FindByID(context.Background(), pending.ID)
	assert.Nil(t, u)

	// OWNER 不可被拒绝
	code, _ = env.do(t, http.MethodPost, "/api/v1/users/1/deny", owner, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAssignableFiltersByRank(t *testing.T) {
	env := newTestEnv(t)
	manager := env.token(t, 2, rbac.RoleManager)

	code, e := env.do(t, http.MethodGet, "/api/v1/users/assignable", manager, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Users []struct{ Role string }
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	for _, u := range out.Users {
		r, err := rbac.ParseRole(u.Role)
		require.NoError(t, err)
		assert.LessOrEqual(t, rbac.Rank(r), rbac.Rank(rbac.RoleManager))
	}
}

func TestCleanupEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, 1, rbac.RoleOwner)
	employee := env.token(t, 3, rbac.RoleEmployee)

	env.users.add(domain.User{Email: "old@example.com", Role: rbac.RoleEmployee, CreatedAt: time.Now().Add(-2 * time.Hour)})
	env.users.add(domain.User{Email: "fresh@example.com", Role: rbac.RoleEmployee, CreatedAt: time.Now().Add(-10 * time.Minute)})

	// 角色门槛在 token claims 上
	code, _ := env.do(t, http.MethodPost, "/api/v1/cleanup/pending-users", employee, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, e := env.do(t, http.MethodPost, "/api/v1/cleanup/pending-users?duration=60", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct{ Deleted int64 }
	require.NoError(t, json.Unmarshal(e.Data, &out))
	assert.Equal(t, int64(1), out.Deleted, "only the account past the TTL is removed")

	fresh, _ := env.users.FindByEmail(context.Background(), "fresh@example.com")
	assert.NotNil(t, fresh)
}

func TestTaskRouteShapes(t *testing.T) {
	env := newTestEnv(t)
	manager := env.token(t, 2, rbac.RoleManager)

	// 静态段与 :id 通配并存
	code, e := env.do(t, http.MethodGet, "/api/v1/tasks/ordered", manager, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Tasks    []struct{ ID uint }
		HadCycle bool
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	require.Len(t, out.Tasks, 2)
	assert.Equal(t, uint(2), out.Tasks[0].ID, "blocker comes first")

	code, _ = env.do(t, http.MethodGet, "/api/v1/tasks/123", manager, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/tasks/abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	manager := env.token(t, 2, rbac.RoleManager)

	code, e := env.do(t, http.MethodGet, "/api/v1/dashboard/stats", manager, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		TotalTasks   int64
		PendingUsers int64
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	assert.Equal(t, int64(2), out.TotalTasks)
	assert.Zero(t, out.PendingUsers)
}
