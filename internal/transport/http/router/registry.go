package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// 模块可选择实现其中一个或两个接口
type PublicModule interface{ MountPublic(*gin.RouterGroup) }
type AuthedModule interface{ MountAuthed(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 模块注册表。每个 engine 一份，避免跨实例重复挂载。
type Registry struct {
	mu         sync.Mutex
	publicMods []PublicModule
	authedMods []AuthedModule
}

func NewRegistry() *Registry { return &Registry{} }

// Register 统一注册入口：根据类型断言分发
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(PublicModule); ok {
		r.publicMods = append(r.publicMods, m)
	}
	if m, ok := mod.(AuthedModule); ok {
		r.authedMods = append(r.authedMods, m)
	}
}

// MountAllPublic 挂载无需登录的模块路由
func (r *Registry) MountAllPublic(g *gin.RouterGroup) {
	r.mu.Lock()
	mods := append([]PublicModule(nil), r.publicMods...)
	r.mu.Unlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountPublic(g)
	}
}

// MountAllAuthed 挂载登录后的模块路由
func (r *Registry) MountAllAuthed(g *gin.RouterGroup) {
	r.mu.Lock()
	mods := append([]AuthedModule(nil), r.authedMods...)
	r.mu.Unlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAuthed(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
