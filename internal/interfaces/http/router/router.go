package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type registration struct {
	prefix    string
	registrar RouteRegistrar
}

// Router manages HTTP route registration
type Router struct {
	engine        *gin.Engine
	apiVersion    string
	middleware    []gin.HandlerFunc
	registrations []registration
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:        engine,
		apiVersion:    "v1",
		middleware:    make([]gin.HandlerFunc, 0),
		registrations: make([]registration, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware applied to the whole versioned API group
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar mounted directly under the API version
func (r *Router) Register(registrar RouteRegistrar) *Router {
	return r.RegisterUnder("", registrar)
}

// RegisterUnder adds RouteRegistrars mounted under a shared domain prefix
// (e.g. "/finance")
func (r *Router) RegisterUnder(prefix string, registrars ...RouteRegistrar) *Router {
	for _, registrar := range registrars {
		r.registrations = append(r.registrations, registration{
			prefix:    prefix,
			registrar: registrar,
		})
	}
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}

	// Domain groups are created once and shared by every registrar
	// that mounts under the same prefix.
	groups := make(map[string]*gin.RouterGroup)
	for _, reg := range r.registrations {
		target := api
		if reg.prefix != "" {
			group, ok := groups[reg.prefix]
			if !ok {
				group = api.Group(reg.prefix)
				groups[reg.prefix] = group
			}
			target = group
		}
		reg.registrar.RegisterRoutes(target)
	}
}
