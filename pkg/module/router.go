package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/rankwise/pkg/middleware"
)

// Router dispatches requests to mounted modules by first path segment and
// falls back to a native ServeMux for probes and metrics.
type Router struct {
	modules    map[string]*Module
	native     *http.ServeMux
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// NewRouter creates a Router with no modules and an empty fallback mux.
func NewRouter() *Router {
	return &Router{
		modules:    make(map[string]*Module),
		native:     http.NewServeMux(),
		middleware: middleware.New(),
	}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module under its prefix.
func (r *Router) Mount(m *Module) error {
	if _, ok := r.modules[m.prefix]; ok {
		return fmt.Errorf("module prefix already mounted: %s", m.prefix)
	}
	r.modules[m.prefix] = m
	return nil
}

// Use adds middleware that wraps every request, mounted or native. It must
// be called before the first request is served.
func (r *Router) Use(mw middleware.Func) {
	r.middleware.Use(mw)
}

// ServeHTTP applies router middleware, then dispatches.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		r.handler = r.middleware.Apply(http.HandlerFunc(r.dispatch))
	})
	r.handler.ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if len(path) > 1 {
		req = withPath(req, strings.TrimSuffix(path, "/"))
	}

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

// firstSegment returns "/a" for "/a/b/c".
func firstSegment(path string) string {
	rest, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + rest
}
