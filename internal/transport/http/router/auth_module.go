package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskerai/internal/domain"
	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type authModule struct {
	users *service.UserService
}

func (m *authModule) Priority() int { return 10 }

type userOut struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
	Active     bool   `json:"active"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{
		ID: u.ID, Email: u.Email, Name: u.Name,
		Role: string(u.Role), IsVerified: u.IsVerified, Active: u.Active,
	}
}

func (m *authModule) MountPublic(g *gin.RouterGroup) {
	e := ez.New(g)

	type signupIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
		Password string `json:"password" binding:"required,min=8"`
	}
	type signupOut struct {
		User userOut `json:"user"`
		// 邮件投递不在本服务内，确认令牌直接返回给调用方
		VerifyToken string `json:"verifyToken"`
	}
	ez.Register(e, ez.Action[signupIn, signupOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (signupOut, error) {
			u, token, err := m.users.Signup(c, in.Email, in.Name, in.Password)
			if err != nil {
				return signupOut{}, asErr(err)
			}
			return signupOut{User: toUserOut(u), VerifyToken: token}, nil
		},
	})

	type verifyIn struct {
		Token string `json:"token" binding:"required"`
	}
	ez.Register(e, ez.Action[verifyIn, userOut]{
		Method: http.MethodPost,
		Path:   "/auth/verify",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *verifyIn) (userOut, error) {
			u, err := m.users.Verify(c, in.Token)
			if err != nil {
				return userOut{}, asErr(err)
			}
			return toUserOut(u), nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string  `json:"token"`
		User  userOut `json:"user"`
	}
	ez.Register(e, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			token, u, err := m.users.Login(c, in.Email, in.Password)
			if err != nil {
				return loginOut{}, asErr(err)
			}
			return loginOut{Token: token, User: toUserOut(u)}, nil
		},
	})
}

func (m *authModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.Register(e, ez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, err := m.users.Get(c, c.GetUint("userId"))
			if err != nil {
				return userOut{}, asErr(err)
			}
			return toUserOut(u), nil
		},
	})
}
