package router

import "github.com/gin-gonic/gin"

// Module is a feature unit that mounts its routes on the shared /api
// group. Modules are constructed with their dependencies already bound;
// Register only wires paths.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under one API group.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use attaches middleware to the API group, ahead of any module routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.API.Use(mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts every added module.
func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
