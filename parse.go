package viewroutes

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

type parseContext struct {
	root *PageNode
	args argRegistry
}

func parsePageTree(route string, page any, args ...any) (*parseContext, error) {
	pc := &parseContext{args: make(argRegistry)}
	for _, v := range args {
		if err := pc.args.addArg(v); err != nil {
			return nil, fmt.Errorf("error adding argument to registry: %w", err)
		}
	}
	root, err := pc.parsePageTree(route, "", page)
	if err != nil {
		return nil, err
	}
	pc.root = root
	return pc, nil
}

func (p *parseContext) parsePageTree(route, fieldName string, page any) (*PageNode, error) {
	if page == nil {
		return nil, fmt.Errorf("page for route %q is nil", route)
	}
	st := reflect.TypeOf(page) // struct type
	v := reflect.ValueOf(page)
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	} else {
		// keep an addressable copy so pointer receiver methods can be called
		pv := reflect.New(st)
		pv.Elem().Set(v)
		v = pv
	}
	pt := reflect.PointerTo(st) // pointer type
	item := &PageNode{Value: v, Name: cmp.Or(fieldName, st.Name())}
	item.Method, item.Route, item.Title = parseTag(route)

	if st.Kind() == reflect.Struct {
		for i := range st.NumField() {
			field := st.Field(i)
			route, ok := field.Tag.Lookup("route")
			if !ok {
				continue
			}
			typ := field.Type
			if typ.Kind() == reflect.Ptr {
				typ = typ.Elem()
			}
			child, err := p.parsePageTree(route, field.Name, reflect.New(typ).Interface())
			if err != nil {
				return nil, err
			}
			child.Parent = item
			item.Children = append(item.Children, child)
		}
	}

	// value receiver methods first: seen through the pointer type they look
	// like autogenerated wrappers.
	seen := make(map[string]bool)
	for _, t := range []reflect.Type{st, pt} {
		for i := range t.NumMethod() {
			method := t.Method(i)
			if seen[method.Name] || isPromotedMethod(&method) {
				continue
			}
			seen[method.Name] = true
			if isComponent(&method) {
				if item.Components == nil {
					item.Components = make(map[string]*reflect.Method)
				}
				item.Components[method.Name] = &method
				continue
			}
			if strings.HasSuffix(method.Name, "Props") {
				if item.Props == nil {
					item.Props = make(map[string]*reflect.Method)
				}
				item.Props[method.Name] = &method
				continue
			}
			switch method.Name {
			case "PageConfig":
				item.Config = &method
			case "Middlewares":
				item.Middlewares = &method
			case "Init":
				item.Init = &method
			}
		}
	}

	return item, nil
}

// callMethod calls method with receiver pn.Value. args fill the leading
// parameters; the remaining ones are resolved by type: *PageNode, the current
// request and its context when r is not nil, then the args registry.
func (p *parseContext) callMethod(pn *PageNode, method *reflect.Method, r *http.Request,
	args ...reflect.Value) ([]reflect.Value, error) {
	v := pn.Value
	receiver := method.Type.In(0)
	// make sure receiver and value match, if method takes a value, dereference the pointer
	if receiver.Kind() != reflect.Ptr && v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	in := make([]reflect.Value, method.Type.NumIn())
	in[0] = v
	filled := 1
	for i := range min(len(in)-1, len(args)) {
		in[i+1] = args[i]
		filled++
	}
	pnv := reflect.ValueOf(pn)
	for i := filled; i < len(in); i++ {
		argType := method.Type.In(i)
		switch {
		case argType == pnv.Type():
			in[i] = pnv
		case r != nil && argType == requestType:
			in[i] = reflect.ValueOf(r)
		case r != nil && argType == contextType:
			in[i] = reflect.ValueOf(r.Context())
		default:
			val, ok := p.args.getArg(argType)
			if !ok {
				return nil, fmt.Errorf("method %s requires argument of type %s, but not found",
					formatMethod(method), argType.String())
			}
			in[i] = val
		}
	}
	return method.Func.Call(in), nil
}

func (p *parseContext) callComponentMethod(pn *PageNode, method *reflect.Method, r *http.Request,
	args ...reflect.Value) (component, error) {
	results, err := p.callMethod(pn, method, r, args...)
	if err != nil {
		return nil, fmt.Errorf("error calling component method %s: %w", formatMethod(method), err)
	}
	comp, ok := results[0].Interface().(component)
	if !ok || comp == nil {
		return nil, fmt.Errorf("method %s returned a nil component", formatMethod(method))
	}
	return comp, nil
}

// parseTag splits a route tag of the form "[METHOD] path [title...]".
func parseTag(route string) (method, path, title string) {
	method = methodAll
	parts := strings.Fields(route)
	if len(parts) == 0 {
		path = "/"
		return
	}
	if len(parts) == 1 {
		path = parts[0]
		return
	}
	if m := strings.ToUpper(parts[0]); slices.Contains(validMethod, m) {
		method = m
		path = parts[1]
		title = strings.Join(parts[2:], " ")
	} else {
		path = parts[0]
		title = strings.Join(parts[1:], " ")
	}
	return
}

const methodAll = "ALL"

var validMethod = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
	methodAll,
}

type component interface {
	Render(context.Context, io.Writer) error
}

var (
	componentType = reflect.TypeOf((*component)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	handlerType   = reflect.TypeOf((*http.Handler)(nil)).Elem()
	requestType   = reflect.TypeOf((*http.Request)(nil))
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
)

func isComponent(t *reflect.Method) bool {
	if t.Type.NumOut() != 1 {
		return false
	}
	return t.Type.Out(0).Implements(componentType)
}

func isPromotedMethod(method *reflect.Method) bool {
	// Check if the method is promoted from an embedded type
	// https://github.com/golang/go/issues/73883
	wPC := method.Func.Pointer()
	wFunc := runtime.FuncForPC(wPC)
	wFile, wLine := wFunc.FileLine(wPC)
	return wFile == "<autogenerated>" && wLine == 1
}

// extractError splits a trailing error result off a method's results.
func extractError(args []reflect.Value) ([]reflect.Value, error) {
	if len(args) >= 1 && args[len(args)-1].Type().AssignableTo(errorType) {
		i := args[len(args)-1].Interface()
		args = args[:len(args)-1]
		if i == nil {
			return args, nil
		}
		return args, i.(error)
	}
	return args, nil
}

func formatMethod(method *reflect.Method) string {
	if method == nil || method.Func == (reflect.Value{}) {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s", method.Type.In(0).String(), method.Name)
}
