// Package router wires handler route registration onto the versioned API
// group. Handlers own their own routes; the router only owns the prefix.
package router

import (
	"github.com/gin-gonic/gin"
)

const defaultAPIVersion = "v1"

// RouteRegistrar is implemented by handlers that register their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under /api/<version>
type Router struct {
	engine     *gin.Engine
	version    string
	registrars []RouteRegistrar
}

// NewRouter creates a Router for the engine. An empty version falls back to
// the default ("v1").
func NewRouter(engine *gin.Engine, version string) *Router {
	if version == "" {
		version = defaultAPIVersion
	}
	return &Router{
		engine:  engine,
		version: version,
	}
}

// Register queues a registrar; chainable
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every queued registrar on the versioned group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.version)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
