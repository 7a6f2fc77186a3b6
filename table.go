package viewroutes

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/angelofallars/htmx-go"
)

// MiddlewareFunc wraps the handler of a single route.
type MiddlewareFunc func(http.Handler, *PageNode) http.Handler

// Table is an immutable route table built from a tree of page structs. It is an
// http.Handler: every request is matched against the table, the page is loaded
// on first use and the selected component is rendered.
type Table struct {
	onError           func(http.ResponseWriter, *http.Request, error)
	notFound          http.Handler
	middlewares       []MiddlewareFunc
	defaultPageConfig func(*http.Request) (string, error)
	basePath          string

	pc     *parseContext
	routes []*PageNode // routable nodes, most precise first
	byName map[string]*PageNode
}

// Option configures a Table.
type Option func(*Table)

// New creates an empty table. Call MountPages to populate it.
func New(options ...Option) *Table {
	t := &Table{
		onError: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		notFound: http.NotFoundHandler(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// WithErrorHandler sets the handler called when loading, configuring or
// rendering a page fails.
func WithErrorHandler(onError func(http.ResponseWriter, *http.Request, error)) Option {
	return func(t *Table) {
		t.onError = onError
	}
}

// WithNotFound sets the handler for paths that match no route.
func WithNotFound(h http.Handler) Option {
	return func(t *Table) {
		t.notFound = h
	}
}

// WithMiddlewares adds middlewares applied to every route. They run before the
// Middlewares of the route and its parents, in the order given.
func WithMiddlewares(middlewares ...MiddlewareFunc) Option {
	return func(t *Table) {
		t.middlewares = append(t.middlewares, middlewares...)
	}
}

// WithDefaultPageConfig sets the component selector used by pages without a
// PageConfig method. See HTMXPageConfig.
func WithDefaultPageConfig(configFunc func(*http.Request) (string, error)) Option {
	return func(t *Table) {
		t.defaultPageConfig = configFunc
	}
}

// WithBasePath serves the table under prefix, e.g. "/app". Matching strips it
// and URLFor prepends it.
func WithBasePath(prefix string) Option {
	return func(t *Table) {
		t.basePath = strings.TrimRight(prefix, "/")
	}
}

// BasePath returns the prefix the table is served under.
func (t *Table) BasePath() string { return t.basePath }

// MountPages parses page into the table and registers it on router. route and
// title describe the root page; args are made available to page methods by type.
//
// Example:
//
//	type pages struct {
//		home    homeView    `route:"/ Home"`
//		country countryView `route:"GET /countries/{name}-{countryCode} Country"`
//	}
//
//	t := viewroutes.New()
//	err := t.MountPages(viewroutes.NewRouter(mux), pages{}, "/", "Countries", svc)
func (t *Table) MountPages(router Router, page any, route, title string, args ...any) error {
	if t.pc != nil {
		return errors.New("pages already mounted")
	}
	pc, err := parsePageTree(route, page, args...)
	if err != nil {
		return err
	}
	pc.root.Title = title
	if err := t.build(pc); err != nil {
		return err
	}
	t.pc = pc
	if router == nil {
		return nil
	}
	router.HandleMethod(methodAll, t.basePath+"/{path...}", t)
	if t.basePath != "" {
		router.HandleMethod(methodAll, t.basePath, http.RedirectHandler(t.basePath+"/", http.StatusMovedPermanently))
	}
	return nil
}

func (t *Table) build(pc *parseContext) error {
	t.byName = make(map[string]*PageNode)
	shapes := make(map[string][]*PageNode)
	order := 0
	for node := range pc.root.All() {
		if node.Route == "" {
			return fmt.Errorf("page item route is empty: %s", node.Name)
		}
		handler, err := t.buildHandler(node, pc)
		if err != nil {
			return err
		}
		if handler == nil {
			if len(node.Children) == 0 {
				return fmt.Errorf("page item %s does not have a valid handler or children", node.Name)
			}
			continue
		}
		handler, err = t.applyMiddlewares(handler, node, pc)
		if err != nil {
			return err
		}
		node.handler = handler
		node.pattern, err = parsePattern(node.FullRoute())
		if err != nil {
			return fmt.Errorf("page %s: %w", node.Name, err)
		}
		if other, ok := t.byName[node.Name]; ok {
			return fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateRoute, node.Name, other.FullRoute(), node.FullRoute())
		}
		shape := node.pattern.shape()
		for _, other := range shapes[shape] {
			if other.Method == node.Method || other.Method == methodAll || node.Method == methodAll {
				return fmt.Errorf("%w: %s (%s) and %s (%s)", ErrAmbiguousRoute,
					other.Name, other.FullRoute(), node.Name, node.FullRoute())
			}
		}
		shapes[shape] = append(shapes[shape], node)
		t.byName[node.Name] = node
		node.order = order
		order++
		t.routes = append(t.routes, node)
	}
	slices.SortStableFunc(t.routes, func(a, b *PageNode) int {
		switch {
		case morePrecise(a.pattern, b.pattern):
			return -1
		case morePrecise(b.pattern, a.pattern):
			return 1
		}
		return a.order - b.order
	})
	return nil
}

func (t *Table) applyMiddlewares(handler http.Handler, node *PageNode, pc *parseContext) (http.Handler, error) {
	// middlewares run in declaration order: global ones first, then from the
	// root page down to the route itself
	var chain []*PageNode
	for n := node; n != nil; n = n.Parent {
		if n.Middlewares != nil {
			chain = append(chain, n)
		}
	}
	for _, n := range chain {
		res, err := pc.callMethod(n, n.Middlewares, nil)
		if err != nil {
			return nil, fmt.Errorf("error calling Middlewares method on %s: %w", n.Name, err)
		}
		res, err = extractError(res)
		if err != nil {
			return nil, fmt.Errorf("error calling Middlewares method on %s: %w", n.Name, err)
		}
		if len(res) != 1 {
			return nil, fmt.Errorf("middlewares method on %s did not return single result", n.Name)
		}
		middlewares, ok := res[0].Interface().([]MiddlewareFunc)
		if !ok {
			return nil, fmt.Errorf("middlewares method on %s did not return []MiddlewareFunc", n.Name)
		}
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler, node)
		}
	}
	for i := len(t.middlewares) - 1; i >= 0; i-- {
		handler = t.middlewares[i](handler, node)
	}
	return handler, nil
}

// Match is the result of resolving a path against the table.
type Match struct {
	Node   *PageNode
	Params []Param
}

// Get returns the value of the named parameter, or "".
func (m *Match) Get(name string) string {
	for _, p := range m.Params {
		if p.Key == name {
			return p.Value
		}
	}
	return ""
}

// Map returns the parameters as a map.
func (m *Match) Map() map[string]string {
	out := make(map[string]string, len(m.Params))
	for _, p := range m.Params {
		out[p.Key] = p.Value
	}
	return out
}

// Match resolves an escaped path, relative to the base path, ignoring methods.
func (t *Table) Match(path string) (*Match, bool) {
	m, _ := t.lookup("", path)
	return m, m != nil
}

// Routes returns the routable pages in lookup order.
func (t *Table) Routes() []*PageNode { return slices.Clone(t.routes) }

// Route returns the page registered under name.
func (t *Table) Route(name string) (*PageNode, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// lookup returns the first route matching path and method. When the path
// matches only routes for other methods, those methods are returned instead.
func (t *Table) lookup(method, path string) (*Match, []string) {
	var allowed []string
	for _, node := range t.routes {
		params, ok := node.pattern.match(path)
		if !ok {
			continue
		}
		if method == "" || methodMatches(node.Method, method) {
			return &Match{Node: node, Params: params}, nil
		}
		if !slices.Contains(allowed, node.Method) {
			allowed = append(allowed, node.Method)
		}
	}
	return nil, allowed
}

func methodMatches(routeMethod, method string) bool {
	return routeMethod == methodAll || routeMethod == method ||
		(routeMethod == http.MethodGet && method == http.MethodHead)
}

func (t *Table) relativePath(p string) (string, bool) {
	if t.basePath == "" {
		return p, true
	}
	if p == t.basePath {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(p, t.basePath); ok && strings.HasPrefix(rest, "/") {
		return rest, true
	}
	return "", false
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := t.relativePath(r.URL.EscapedPath())
	if !ok {
		t.notFound.ServeHTTP(w, r)
		return
	}
	m, allowed := t.lookup(r.Method, p)
	if m == nil {
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		t.notFound.ServeHTTP(w, r)
		return
	}
	ctx := tableCtx.WithValue(r.Context(), t)
	ctx = matchCtx.WithValue(ctx, m)
	m.Node.handler.ServeHTTP(w, r.WithContext(ctx))
}

// load runs the page's Init method on first navigation. Failures are not
// remembered, so the next navigation retries.
func (t *Table) load(pn *PageNode, pc *parseContext, r *http.Request) error {
	if pn.Init == nil || pn.loaded.Load() {
		return nil
	}
	pn.loadMu.Lock()
	defer pn.loadMu.Unlock()
	if pn.loaded.Load() {
		return nil
	}
	res, err := pc.callMethod(pn, pn.Init, r)
	if err != nil {
		return fmt.Errorf("error calling Init method on %s: %w", pn.Name, err)
	}
	if _, err := extractError(res); err != nil {
		return fmt.Errorf("error calling Init method on %s: %w", pn.Name, err)
	}
	pn.loaded.Store(true)
	return nil
}

func (t *Table) buildHandler(page *PageNode, pc *parseContext) (http.Handler, error) {
	if h := t.getHttpHandler(page.Value); h != nil {
		return t.loading(page, pc, h), nil
	}
	if len(page.Components) == 0 {
		return nil, nil
	}
	if page.Components["Page"] == nil {
		return nil, fmt.Errorf("page item %s does not have a Page component", page.Name)
	}

	return t.loading(page, pc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := t.componentName(page, pc, r)
		if err != nil {
			t.onError(w, r, fmt.Errorf("error selecting component on %s: %w", page.Name, err))
			return
		}
		compMethod, ok := page.Components[name]
		if !ok && htmx.IsHTMX(r) {
			// no partial for this target: send the whole page
			name, compMethod, ok = "Page", page.Components["Page"], true
		}
		if !ok {
			t.onError(w, r, fmt.Errorf("component %s not found on %s", name, page.Name))
			return
		}

		var props []reflect.Value
		if pm := propsMethod(page, name); pm != nil {
			props, err = pc.callMethod(page, pm, r)
			if err == nil {
				props, err = extractError(props)
			}
			if err != nil {
				t.onError(w, r, fmt.Errorf("error calling %s on %s: %w", pm.Name, page.Name, err))
				return
			}
		}

		comp, err := pc.callComponentMethod(page, compMethod, r, props...)
		if err != nil {
			t.onError(w, r, err)
			return
		}

		bw := newBuffered(w)
		if err := comp.Render(r.Context(), bw); err != nil {
			bw.discard()
			t.onError(w, r, err)
			return
		}
		if resp, ok := historyResponse(r, name); ok {
			headers, err := resp.Headers()
			if err != nil {
				bw.discard()
				t.onError(w, r, err)
				return
			}
			for k, v := range headers {
				w.Header().Set(k, v)
			}
		}
		_ = bw.close()
	})), nil
}

func (t *Table) loading(page *PageNode, pc *parseContext, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.load(page, pc, r); err != nil {
			t.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Table) componentName(page *PageNode, pc *parseContext, r *http.Request) (string, error) {
	if page.Config != nil {
		res, err := pc.callMethod(page, page.Config, r)
		if err != nil {
			return "", err
		}
		res, err = extractError(res)
		if err != nil {
			return "", err
		}
		if len(res) != 1 || res[0].Kind() != reflect.String {
			return "", fmt.Errorf("PageConfig method on %s must return a string", page.Name)
		}
		return res[0].String(), nil
	}
	if t.defaultPageConfig != nil {
		return t.defaultPageConfig(r)
	}
	return "Page", nil
}

func propsMethod(page *PageNode, component string) *reflect.Method {
	if m, ok := page.Props[component+"Props"]; ok {
		return m
	}
	return page.Props["Props"]
}

// historyResponse returns the HTMX headers for a rendered component. Partial
// navigations push the real URL into browser history; a full page sent to a
// targeted HTMX request is retargeted to the body.
func historyResponse(r *http.Request, component string) (htmx.Response, bool) {
	if !htmx.IsHTMX(r) || htmx.IsBoosted(r) {
		return htmx.Response{}, false
	}
	if component == "Page" {
		return htmx.NewResponse().Retarget("body"), true
	}
	if r.Method != http.MethodGet {
		return htmx.Response{}, false
	}
	return htmx.NewResponse().PushURL(r.URL.RequestURI()), true
}

type httpErrHandler interface {
	ServeHTTP(http.ResponseWriter, *http.Request) error
}

var errHandlerType = reflect.TypeOf((*httpErrHandler)(nil)).Elem()

func (t *Table) getHttpHandler(v reflect.Value) http.Handler {
	st, pt := v.Type(), v.Type()
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	} else {
		pt = reflect.PointerTo(st)
	}
	method, ok := st.MethodByName("ServeHTTP")
	if !ok || isPromotedMethod(&method) {
		method, ok = pt.MethodByName("ServeHTTP")
		if !ok || isPromotedMethod(&method) {
			return nil
		}
	}

	if v.Type().Implements(handlerType) {
		return v.Interface().(http.Handler)
	}
	if v.Type().Implements(errHandlerType) {
		h := v.Interface().(httpErrHandler)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := h.ServeHTTP(w, r); err != nil {
				t.onError(w, r, err)
			}
		})
	}
	return nil
}
