package viewroutes

import "errors"

var (
	// ErrInvalidPattern is returned when a route pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrDuplicateRoute is returned when two routes share a name.
	ErrDuplicateRoute = errors.New("duplicate route name")
	// ErrAmbiguousRoute is returned when two routes would match exactly the same paths.
	ErrAmbiguousRoute = errors.New("ambiguous route")
	// ErrRouteNotFound is returned by URLFor when no route matches the page argument.
	ErrRouteNotFound = errors.New("route not found")
	// ErrMissingParam is returned by URLFor when a path parameter has no value.
	ErrMissingParam = errors.New("missing route parameter")
	// ErrAmbiguousParams is returned by URLFor when the generated path would not
	// split back into the same parameter values.
	ErrAmbiguousParams = errors.New("ambiguous route parameters")
)
