package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Router mounts DomainGroups under the versioned API prefix
type Router struct {
	engine  *gin.Engine
	version string
	groups  []*DomainGroup
}

type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the base path, "v1" by default
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// BasePath is /api/<version>
func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Setup mounts every registered group and returns how many routes it added
func (r *Router) Setup() int {
	api := r.engine.Group(r.BasePath())
	n := 0
	for _, g := range r.groups {
		g.mount(api)
		n += len(g.routes)
	}
	return n
}

// Route is one method and path, relative to the API base path
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string { return r.Method + " " + r.Path }

type route struct {
	Route
	handlers []gin.HandlerFunc
}

// DomainGroup is one area of the API: a path prefix, a guard chain and the
// routes behind them.
type DomainGroup struct {
	name   string
	prefix string
	guards []gin.HandlerFunc
	routes []route
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use appends guards that run before every route in the group
func (dg *DomainGroup) Use(guards ...gin.HandlerFunc) *DomainGroup {
	dg.guards = append(dg.guards, guards...)
	return dg
}

func (dg *DomainGroup) add(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{
		Route:    Route{Method: method, Path: joinPaths(dg.prefix, path)},
		handlers: handlers,
	})
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, handlers)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPatch, path, handlers)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, path, handlers)
}

// mount registers the routes with their full paths so groups sharing an
// empty prefix do not share gin's group middleware
func (dg *DomainGroup) mount(api *gin.RouterGroup) {
	for _, rt := range dg.routes {
		chain := make([]gin.HandlerFunc, 0, len(dg.guards)+len(rt.handlers))
		chain = append(append(chain, dg.guards...), rt.handlers...)
		api.Handle(rt.Method, rt.Path, chain...)
	}
}

// Routes lists the group's routes relative to the API base path
func (dg *DomainGroup) Routes() []Route {
	out := make([]Route, len(dg.routes))
	for i, rt := range dg.routes {
		out[i] = rt.Route
	}
	return out
}

func (dg *DomainGroup) Name() string   { return dg.name }
func (dg *DomainGroup) Prefix() string { return dg.prefix }

func joinPaths(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}
