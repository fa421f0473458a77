package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskerai/internal/core/auth"
	"taskerai/internal/service"
	"taskerai/internal/sweeper"
	"taskerai/internal/transport/http/ez"
	mdw "taskerai/internal/transport/http/middleware"
)

type Deps struct {
	Users     *service.UserService
	Tasks     *service.TaskService
	Messages  *service.MessageService
	Notifs    *service.NotificationService
	Dashboard *service.DashboardService
	Sweeper   *sweeper.Service
	SweepTTL  time.Duration
	JWTer     *auth.JWTer
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer))

	reg := NewRegistry()
	reg.Register(&authModule{users: d.Users})
	reg.Register(&usersModule{users: d.Users})
	reg.Register(&tasksModule{tasks: d.Tasks})
	reg.Register(&messagesModule{msgs: d.Messages})
	reg.Register(&notificationsModule{notifs: d.Notifs})
	reg.Register(&dashboardModule{stats: d.Dashboard})
	reg.Register(&cleanupModule{sweeper: d.Sweeper, defaultTTL: d.SweepTTL})

	reg.MountAllPublic(api)
	reg.MountAllAuthed(authed)

	return r
}

// asErr 业务错误 → 统一 HTTP 错误码
func asErr(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrNotifNotFound):
		return ez.NotFound(err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrDenyOwner),
		errors.Is(err, service.ErrSelfPromotion),
		errors.Is(err, service.ErrTargetIsOwner),
		errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrNotActive):
		return ez.Forbidden(err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyApproved):
		return ez.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrBadAssignee),
		errors.Is(err, service.ErrBadMessage),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrSelfDependency):
		return ez.BadRequest(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return ez.Unauthorized(err.Error())
	default:
		return ez.Internal("internal error", err)
	}
}
