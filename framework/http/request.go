package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/km-arc/go-injector/framework/scope"
)

// Request wraps *http.Request with lookup helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// RouteInt parses a URL route parameter as an int.
func (req *Request) RouteInt(key string) (int, error) {
	v := req.RouteParam(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("route parameter %s: %q is not an integer", key, v)
	}
	return i, nil
}

// ScopeID returns the scope opened for this request by the Scope middleware.
func (req *Request) ScopeID() (uuid.UUID, bool) {
	return scope.FromContext(req.raw.Context())
}
