// Package viewroutes provides an immutable route table for server-rendered
// views, defined with struct tags and methods.
//
// Each tagged field is a named route (the field name) mapping a URL pattern to
// a page. Patterns may split one segment into several parameters, e.g.
// /countries/{name}-{countryCode}. Literal routes take precedence over dynamic
// ones. Pages are loaded lazily: a page's Init method runs on the first
// navigation to it. URLFor builds URLs by route name.
//
// The table is an http.Handler and mounts on an http.ServeMux or a chi router.
// With HTMXPageConfig, HTMX navigations render only the targeted component and
// push the URL into browser history.
package viewroutes
