package viewroutes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/jackielii/ctxkey"
)

var (
	tableCtx = ctxkey.New[*Table]("viewroutes.table", nil)
	matchCtx = ctxkey.New[*Match]("viewroutes.match", nil)
)

// CurrentMatch returns the route match of the request being served.
func CurrentMatch(ctx context.Context) *Match {
	return matchCtx.Value(ctx)
}

// PathValue returns the named path parameter of the current route, or "".
func PathValue(ctx context.Context, name string) string {
	if m := matchCtx.Value(ctx); m != nil {
		return m.Get(name)
	}
	return ""
}

// URLFor builds the URL of a page using the table serving the current request.
// See Table.URLFor.
func URLFor(ctx context.Context, page any, args ...any) (string, error) {
	t := tableCtx.Value(ctx)
	if t == nil {
		return "", errors.New("urlfor: route table not found in context")
	}
	return t.urlFor(ctx, page, args...)
}

// URLFor returns the URL for a page, including the base path. page is a route
// name, a page value (matched by type), or a func(*PageNode) bool. Pass []any to
// append literal strings, which may hold parameters of their own:
//
//	t.URLFor([]any{"home", "?q={q}"}, "q", "fr")
//
// args fill the parameters positionally, as a map[string]any, or as key/value
// pairs. Values must not be empty and must split back to the same parameters
// when the URL is matched.
func (t *Table) URLFor(page any, args ...any) (string, error) {
	return t.urlFor(context.Background(), page, args...)
}

func (t *Table) urlFor(ctx context.Context, page any, args ...any) (string, error) {
	parts, ok := page.([]any)
	if !ok {
		parts = []any{page}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("urlfor: %w: no page given", ErrRouteNotFound)
	}
	node, err := t.findNode(parts[0])
	if err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}
	tmpl := node.pattern.String()
	for _, p := range parts[1:] {
		s, ok := p.(string)
		if !ok {
			return "", fmt.Errorf("urlfor: only strings may follow the page, got %T", p)
		}
		tmpl += s
	}
	segments, err := parseSegments(tmpl)
	if err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}
	if err := fillSegments(ctx, tmpl, segments, args...); err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}

	s := joinSegments(segments)
	path, _, _ := strings.Cut(s, "?")
	if err := checkRoundTrip(node, path, segments); err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}
	return t.basePath + s, nil
}

func (t *Table) findNode(page any) (*PageNode, error) {
	switch v := page.(type) {
	case string:
		if n, ok := t.byName[v]; ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: no route named %q", ErrRouteNotFound, v)
	case func(*PageNode) bool:
		for _, n := range t.routes {
			if v(n) {
				return n, nil
			}
		}
		return nil, fmt.Errorf("%w: no route matches predicate", ErrRouteNotFound)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: nil page", ErrRouteNotFound)
	}
	ptv := pointerType(reflect.TypeOf(page))
	for _, n := range t.routesInOrder() {
		if pointerType(n.Value.Type()) == ptv {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: no page node found for %s", ErrRouteNotFound, ptv.String())
}

// routesInOrder lists routes in declaration order, so the first page of a
// type wins when a type is mounted twice.
func (t *Table) routesInOrder() []*PageNode {
	out := make([]*PageNode, len(t.routes))
	for _, n := range t.routes {
		out[n.order] = n
	}
	return out
}

func pointerType(v reflect.Type) reflect.Type {
	if v.Kind() == reflect.Ptr {
		return v
	}
	return reflect.PointerTo(v)
}

type segment struct {
	name  string
	param bool
	value string
	query bool // after the '?'
}

// parseSegments splits a URL template into literal and {param} segments.
func parseSegments(tmpl string) (segments []segment, err error) {
	rest := tmpl
	query := false
	for rest != "" {
		start := strings.Index(rest, "{")
		lit := rest
		if start != -1 {
			lit = rest[:start]
		}
		if lit != "" {
			segments = append(segments, segment{name: lit, query: query})
			query = query || strings.Contains(lit, "?")
		}
		if start == -1 {
			break
		}
		rest = rest[start+1:] // move over the '{'
		end := strings.Index(rest, "}")
		if end == -1 {
			return nil, fmt.Errorf("pattern %s: unmatched {", tmpl)
		}
		name := rest[:end]
		rest = rest[end+1:]
		if name == "$" {
			continue
		}
		name = strings.TrimSuffix(name, "...")
		segments = append(segments, segment{name: name, param: true, query: query})
	}
	return segments, nil
}

// fillSegments assigns values to the param segments from args, falling back to
// the parameters of the route currently being served.
func fillSegments(ctx context.Context, tmpl string, segments []segment, args ...any) error {
	var indices []int
	names := make(map[string]bool)
	for i, seg := range segments {
		if seg.param {
			indices = append(indices, i)
			names[seg.name] = true
		}
	}
	if len(indices) == 0 {
		return nil
	}

	if m := matchCtx.Value(ctx); m != nil {
		for _, idx := range indices {
			segments[idx].value = m.Get(segments[idx].name)
		}
	}

	set := func(idx int, v any) {
		segments[idx].value = fmt.Sprint(v)
	}

	switch {
	case len(args) == 0:
	case isMapArg(args):
		m := args[0].(map[string]any)
		for _, idx := range indices {
			if v, ok := m[segments[idx].name]; ok {
				set(idx, v)
			}
		}
	case len(args) == len(indices):
		for i, idx := range indices {
			set(idx, args[i])
		}
	case isPairs(args, names):
		m := make(map[string]any, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			m[args[i].(string)] = args[i+1]
		}
		for _, idx := range indices {
			if v, ok := m[segments[idx].name]; ok {
				set(idx, v)
			}
		}
	default:
		next := 0
		for _, idx := range indices {
			if segments[idx].value == "" && next < len(args) {
				set(idx, args[next])
				next++
			}
		}
	}

	var missing []string
	for _, idx := range indices {
		if segments[idx].value == "" {
			missing = append(missing, segments[idx].name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("pattern %s: %w %v, args: %v", tmpl, ErrMissingParam, missing, args)
	}
	return nil
}

func isMapArg(args []any) bool {
	if len(args) != 1 {
		return false
	}
	_, ok := args[0].(map[string]any)
	return ok
}

// isPairs reports whether args look like key/value pairs: every key is a string
// and at least one names a parameter.
func isPairs(args []any, names map[string]bool) bool {
	if len(args) < 2 || len(args)%2 != 0 {
		return false
	}
	match := false
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return false
		}
		match = match || names[key]
	}
	return match
}

func joinSegments(segments []segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch {
		case !seg.param:
			sb.WriteString(seg.name)
		case seg.query:
			sb.WriteString(url.QueryEscape(seg.value))
		default:
			sb.WriteString(url.PathEscape(seg.value))
		}
	}
	return sb.String()
}

// checkRoundTrip matches the generated path against the route and makes sure
// every parameter comes back with the value it was given.
func checkRoundTrip(node *PageNode, path string, segments []segment) error {
	params, ok := node.pattern.match(path)
	if !ok {
		return fmt.Errorf("%w: %s does not match %s", ErrAmbiguousParams, path, node.pattern)
	}
	want := make(map[string]string)
	for _, seg := range segments {
		if seg.param && !seg.query {
			want[seg.name] = seg.value
		}
	}
	for _, p := range params {
		if w, ok := want[p.Key]; ok && w != p.Value {
			return fmt.Errorf("%w: %s splits %s=%q, want %q", ErrAmbiguousParams, path, p.Key, p.Value, w)
		}
	}
	return nil
}
