// Package routes declares HTTP endpoints as data so each domain handler can
// publish its surface and the API module can mount it on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and a pattern relative to its group prefix.
// An empty Method matches every method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Full returns the ServeMux pattern for r under prefix, e.g. "GET /cutoffs/{id}".
func (r Route) Full(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}
