package viewroutes

import (
	"fmt"
	"reflect"
)

// argRegistry holds the values passed to MountPages, keyed by their type. Page
// methods (Init, Props, components, Middlewares) receive them by declaring a
// parameter of a matching type.
type argRegistry map[reflect.Type]reflect.Value

func (args argRegistry) addArg(v any) error {
	if v == nil {
		return nil
	}
	typ := reflect.TypeOf(v)
	if _, ok := args[typ]; ok {
		return fmt.Errorf("duplicate type %s in args registry", typ)
	}
	args[typ] = reflect.ValueOf(v)
	return nil
}

// getArg finds a value for a parameter of type pt. An exact match wins; a
// pointer is dereferenced for a value parameter, an addressable value is
// referenced for a pointer parameter, and finally any value assignable to pt is
// accepted (so interfaces can be requested by the implementation they hold).
func (args argRegistry) getArg(pt reflect.Type) (reflect.Value, bool) {
	if v, ok := args[pt]; ok {
		return v, true
	}
	if pt.Kind() != reflect.Ptr {
		if v, ok := args[reflect.PointerTo(pt)]; ok && !v.IsNil() {
			return v.Elem(), true
		}
	} else if v, ok := args[pt.Elem()]; ok && v.CanAddr() {
		return v.Addr(), true
	}
	for t, v := range args {
		if t.AssignableTo(pt) {
			return v, true
		}
	}
	return reflect.Value{}, false
}
