package viewroutes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is where MountPages registers the table. Patterns are written in
// http.ServeMux syntax ("/app/{path...}"); method is an HTTP method or "ALL".
type Router interface {
	HandleMethod(method, pattern string, handler http.Handler)
}

// ServeMuxRouter registers routes on an http.ServeMux.
type ServeMuxRouter struct {
	mux *http.ServeMux
}

// NewRouter adapts mux, or http.DefaultServeMux when mux is nil.
//
//	mux := http.NewServeMux()
//	err := t.MountPages(viewroutes.NewRouter(mux), pages{}, "/", "Countries")
func NewRouter(mux *http.ServeMux) *ServeMuxRouter {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	return &ServeMuxRouter{mux: mux}
}

func (r *ServeMuxRouter) HandleMethod(method, pattern string, handler http.Handler) {
	if method != methodAll && method != "" {
		pattern = method + " " + pattern
	}
	r.mux.Handle(pattern, handler)
}

func (r *ServeMuxRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// ChiRouter registers routes on a chi router.
type ChiRouter struct {
	router chi.Router
}

// NewChiRouter adapts a chi router. A trailing {name...} wildcard is
// registered as chi's catch-all "*".
func NewChiRouter(r chi.Router) *ChiRouter {
	return &ChiRouter{router: r}
}

func (r *ChiRouter) HandleMethod(method, pattern string, handler http.Handler) {
	pattern = chiPattern(pattern)
	if method == methodAll || method == "" {
		r.router.Handle(pattern, handler)
		return
	}
	r.router.Method(method, pattern, handler)
}

func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func chiPattern(pattern string) string {
	i := strings.LastIndex(pattern, "/{")
	if i == -1 || !strings.HasSuffix(pattern, "...}") {
		return pattern
	}
	return pattern[:i] + "/*"
}
