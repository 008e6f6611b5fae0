package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/scope"
)

// ScopeHeader carries the request's scope ID on the response.
const ScopeHeader = "X-Scope-ID"

// Scope opens a new scope on tracker for each request. When the handler
// returns, c.EndScope closes the Scoped instances built for it, so they live
// exactly as long as the request. Requests through this middleware are
// serialized so one request never supersedes another's scoped instances.
func Scope(tracker *scope.Tracker, c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, release := tracker.Enter()
			defer release()
			defer func() {
				if err := c.EndScope(id); err != nil {
					c.Logger().Warn("ending request scope", zap.Stringer("scope", id), zap.Error(err))
				}
			}()

			w.Header().Set(ScopeHeader, id.String())
			next.ServeHTTP(w, r.WithContext(scope.WithID(r.Context(), id)))
		})
	}
}
