package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskerai/internal/domain"
	"taskerai/internal/service"
	"taskerai/internal/transport/http/ez"
)

type tasksModule struct {
	tasks *service.TaskService
}

func (m *tasksModule) Priority() int { return 30 }

type taskIn struct {
	Title       string     `json:"title"       binding:"omitempty,max=191"`
	Description string     `json:"description" binding:"omitempty"`
	Priority    int        `json:"priority"    binding:"omitempty,min=1,max=5"`
	DueDate     *time.Time `json:"dueDate"     binding:"omitempty"`
	AssigneeID  *uint      `json:"assigneeId"  binding:"omitempty"`
}

func (in *taskIn) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		AssigneeID:  in.AssigneeID,
	}
}

func (m *tasksModule) MountAuthed(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.Register(e, ez.Action[taskIn, *domain.Task]{
		Method: http.MethodPost,
		Path:   "/tasks",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskIn) (*domain.Task, error) {
			if in.Title == "" {
				return nil, ez.BadRequest("title is required")
			}
			t, err := m.tasks.Create(c, c.GetUint("userId"), in.toInput())
			if err != nil {
				return nil, asErr(err)
			}
			return t, nil
		},
	})

	type listQ struct {
		Status   string `form:"status"`
		Assignee uint   `form:"assignee"`
		Offset   int    `form:"offset,default=0"`
		Limit    int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64         `json:"total"`
		Tasks []domain.Task `json:"tasks"`
	}
	ez.Register(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			f := domain.TaskFilter{
				AssigneeID: in.Assignee,
				Offset:     in.Offset,
				Limit:      in.Limit,
			}
			if in.Status != "" {
				st := domain.TaskStatus(in.Status)
				if !st.IsValid() {
					return listOut{}, ez.BadRequest("invalid status")
				}
				f.Status = st
			}
			ts, total, err := m.tasks.List(c, f)
			if err != nil {
				return listOut{}, asErr(err)
			}
			return listOut{Total: total, Tasks: ts}, nil
		},
	})

	// 依赖序 + 启发式优先级
	ez.Register(e, ez.Action[struct{}, *service.OrderedTasks]{
		Method: http.MethodGet,
		Path:   "/tasks/ordered",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.OrderedTasks, error) {
			out, err := m.tasks.Ordered(c)
			if err != nil {
				return nil, asErr(err)
			}
			return out, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, *domain.Task]{
		Method: http.MethodGet,
		Path:   "/tasks/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Task, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			t, err := m.tasks.Get(c, id)
			if err != nil {
				return nil, asErr(err)
			}
			return t, nil
		},
	})

	ez.Register(e, ez.Action[taskIn, *domain.Task]{
		Method: http.MethodPut,
		Path:   "/tasks/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskIn) (*domain.Task, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			t, err := m.tasks.Update(c, c.GetUint("userId"), id, in.toInput())
			if err != nil {
				return nil, asErr(err)
			}
			return t, nil
		},
	})

	type statusIn struct {
		Status string `json:"status" binding:"required"`
	}
	ez.Register(e, ez.Action[statusIn, *domain.Task]{
		Method: http.MethodPost,
		Path:   "/tasks/:id/status",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Task, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			st := domain.TaskStatus(in.Status)
			if !st.IsValid() {
				return nil, ez.BadRequest("invalid status")
			}
			t, err := m.tasks.UpdateStatus(c, c.GetUint("userId"), id, st)
			if err != nil {
				return nil, asErr(err)
			}
			return t, nil
		},
	})

	type depIn struct {
		BlockedByID uint `json:"blockedById" binding:"required"`
	}
	ez.Register(e, ez.Action[depIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/tasks/:id/dependencies",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *depIn) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.tasks.AddDependency(c, c.GetUint("userId"), id, in.BlockedByID); err != nil {
				return nil, asErr(err)
			}
			return gin.H{"taskId": id, "blockedById": in.BlockedByID}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/tasks/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.tasks.Delete(c, c.GetUint("userId"), id); err != nil {
				return nil, asErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
