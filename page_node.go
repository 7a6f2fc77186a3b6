package viewroutes

import (
	"fmt"
	"iter"
	"net/http"
	"path"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

// PageNode is one entry of the page tree built from struct tags. Leaf nodes with
// components (or an http.Handler value) are routes; the rest group children under
// a common prefix.
type PageNode struct {
	Name        string
	Title       string
	Method      string
	Route       string
	Value       reflect.Value
	Components  map[string]*reflect.Method
	Props       map[string]*reflect.Method
	Config      *reflect.Method
	Middlewares *reflect.Method
	Init        *reflect.Method
	Parent      *PageNode
	Children    []*PageNode

	pattern *pattern
	handler http.Handler
	order   int

	loadMu sync.Mutex
	loaded atomic.Bool
}

// FullRoute is the route joined with all parent routes, not including the base path.
func (pn *PageNode) FullRoute() string {
	if pn.Parent == nil {
		return pn.Route
	}
	return path.Join(pn.Parent.FullRoute(), pn.Route)
}

// Pattern returns the compiled full route in {name} form, or "" for group nodes.
func (pn *PageNode) Pattern() string {
	if pn.pattern == nil {
		return ""
	}
	return pn.pattern.String()
}

// Params lists the route's parameter names in path order.
func (pn *PageNode) Params() []string {
	if pn.pattern == nil {
		return nil
	}
	return pn.pattern.params
}

// Loaded reports whether the page's Init method has completed.
func (pn *PageNode) Loaded() bool { return pn.Init == nil || pn.loaded.Load() }

// All iterates the node and its descendants depth first.
func (pn *PageNode) All() iter.Seq[*PageNode] {
	return func(yield func(*PageNode) bool) {
		walk(pn, yield)
	}
}

func walk(pn *PageNode, yield func(*PageNode) bool) bool {
	if !yield(pn) {
		return false
	}
	for _, child := range pn.Children {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

func (pn *PageNode) String() string {
	var sb strings.Builder
	sb.WriteString("PageNode{")
	sb.WriteString("\n  name: " + pn.Name)
	sb.WriteString("\n  title: " + pn.Title)
	sb.WriteString("\n  method: " + pn.Method)
	sb.WriteString("\n  route: " + pn.Route)
	sb.WriteString("\n  init: " + formatMethod(pn.Init))
	sb.WriteString("\n  middlewares: " + formatMethod(pn.Middlewares))
	for _, name := range sortedKeys(pn.Components) {
		sb.WriteString("\n  component: " + name + " -> " + formatMethod(pn.Components[name]))
	}
	for _, name := range sortedKeys(pn.Props) {
		sb.WriteString("\n  props: " + name + " -> " + formatMethod(pn.Props[name]))
	}
	for i, child := range pn.Children {
		fmt.Fprintf(&sb, "\n  child %d:", i+1)
		for _, line := range strings.SplitAfter(child.String(), "\n") {
			sb.WriteString("  " + line)
		}
	}
	sb.WriteString("\n}")
	return sb.String()
}
