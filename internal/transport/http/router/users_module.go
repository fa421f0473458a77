package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskerai/internal/domain"
	"taskerai/internal/rbac"
	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type usersModule struct {
	users *service.UserService
}

func (m *usersModule) Priority() int { return 20 }

func paramID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, ez.BadRequest("invalid id")
	}
	return uint(v), nil
}

func toUserOuts(us []domain.User) []userOut {
	out := make([]userOut, 0, len(us))
	for i := range us {
		out = append(out, toUserOut(&us[i]))
	}
	return out
}

func (m *usersModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	// --- POST /users/promote 角色晋升（仅 OWNER） ---
	type promoteIn struct {
		UserID  uint   `json:"userId"  binding:"required"`
		NewRole string `json:"newRole" binding:"required"`
	}
	type promoteOut struct {
		User    userOut `json:"user"`
		Message string  `json:"message"`
	}
	ez.Register(e, ez.Action[promoteIn, promoteOut]{
		Method: http.MethodPost,
		Path:   "/users/promote",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *promoteIn) (promoteOut, error) {
			role, err := rbac.ParseRole(in.NewRole)
			if err != nil {
				return promoteOut{}, ez.BadRequest(err.Error())
			}
			u, err := m.users.Promote(c, c.GetUint("userId"), in.UserID, role)
			if err != nil {
				return promoteOut{}, asErr(err)
			}
			return promoteOut{User: toUserOut(u), Message: "user promoted to " + in.NewRole}, nil
		},
	})

	// --- POST /users/:id/approve 审批通过 ---
	ez.Register(e, ez.Action[struct{}, userOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/approve",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return userOut{}, err
			}
			u, err := m.users.Approve(c, c.GetUint("userId"), id)
			if err != nil {
				return userOut{}, asErr(err)
			}
			return toUserOut(u), nil
		},
	})

	// --- POST /users/:id/deny 拒绝并硬删除 ---
	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/deny",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.users.Deny(c, c.GetUint("userId"), id); err != nil {
				return nil, asErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- GET /users/pending 待审名单（仅 OWNER） ---
	type usersOut struct {
		Users []userOut `json:"users"`
	}
	ez.Register(e, ez.Action[struct{}, usersOut]{
		Method: http.MethodGet,
		Path:   "/users/pending",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (usersOut, error) {
			us, err := m.users.ListPending(c, c.GetUint("userId"))
			if err != nil {
				return usersOut{}, asErr(err)
			}
			return usersOut{Users: toUserOuts(us)}, nil
		},
	})

	// --- GET /users/assignable 可指派名单（等级过滤） ---
	ez.Register(e, ez.Action[struct{}, usersOut]{
		Method: http.MethodGet,
		Path:   "/users/assignable",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (usersOut, error) {
			us, err := m.users.ListAssignable(c, c.GetUint("userId"))
			if err != nil {
				return usersOut{}, asErr(err)
			}
			return usersOut{Users: toUserOuts(us)}, nil
		},
	})

	// --- GET /users 账号列表（管理角色） ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64     `json:"total"`
		Users []userOut `json:"users"`
	}
	ez.Register(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := m.users.List(c, c.GetUint("userId"), in.Offset, in.Limit)
			if err != nil {
				return listOut{}, asErr(err)
			}
			return listOut{Total: total, Users: toUserOuts(us)}, nil
		},
	})

	// --- POST /users 管理员直建（已验证、已激活） ---
	type createIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"     binding:"required"`
	}
	ez.Register(e, ez.Action[createIn, userOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (userOut, error) {
			role, err := rbac.ParseRole(in.Role)
			if err != nil {
				return userOut{}, ez.BadRequest(err.Error())
			}
			u, err := m.users.AdminCreate(c, c.GetUint("userId"), in.Email, in.Name, in.Password, role)
			if err != nil {
				return userOut{}, asErr(err)
			}
			return toUserOut(u), nil
		},
	})
}
