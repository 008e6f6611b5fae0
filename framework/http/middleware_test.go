package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/scope"
)

type requestLog struct {
	closed   int
	closeErr error
}

func (l *requestLog) Close() error {
	l.closed++
	return l.closeErr
}

// newScoped returns a router whose /work route runs handler inside the
// Scope middleware, with *requestLog registered as a scoped service.
func newScoped(t *testing.T, handler func(c *container.Container, w http.ResponseWriter, r *http.Request)) (*routing.Router, *container.Container) {
	t.Helper()
	c := container.New()
	tracker := scope.NewTracker()
	require.NoError(t, container.For[*requestLog](c).
		InScope(tracker.ScopeFunc()).
		Use(container.TypeOf[*requestLog]()))

	r := routing.New(nil)
	r.Group(func(g *routing.Router) {
		g.Middleware(gohttp.Scope(tracker, c))
		g.Get("/work", func(w http.ResponseWriter, req *http.Request) { handler(c, w, req) })
	})
	return r, c
}

func TestScope_OneInstancePerRequest(t *testing.T) {
	var seen []*requestLog
	r, _ := newScoped(t, func(c *container.Container, w http.ResponseWriter, req *http.Request) {
		a := container.MustResolve[*requestLog](c)
		b := container.MustResolve[*requestLog](c)
		assert.Same(t, a, b, "one instance within a request")
		assert.Zero(t, a.closed, "open while the handler runs")
		seen = append(seen, a)

		id, ok := gohttp.NewRequest(req).ScopeID()
		require.True(t, ok)
		assert.Equal(t, id.String(), w.Header().Get(gohttp.ScopeHeader))
		w.WriteHeader(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/work", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/work", nil))

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.NotEqual(t, first.Header().Get(gohttp.ScopeHeader), second.Header().Get(gohttp.ScopeHeader))
}

func TestScope_ClosesWhenRequestEnds(t *testing.T) {
	var log *requestLog
	r, c := newScoped(t, func(c *container.Container, w http.ResponseWriter, _ *http.Request) {
		log = container.MustResolve[*requestLog](c)
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))

	require.NotNil(t, log)
	assert.Equal(t, 1, log.closed, "closed as soon as the request returns")

	reg, _ := c.Registration(container.TypeOf[*requestLog]())
	assert.Nil(t, reg.CachedInstance())

	require.NoError(t, c.Shutdown(context.Background()))
	assert.Equal(t, 1, log.closed, "not closed again on shutdown")
}

func TestScope_ClosesAfterPanic(t *testing.T) {
	var log *requestLog
	r, _ := newScoped(t, func(c *container.Container, _ http.ResponseWriter, _ *http.Request) {
		log = container.MustResolve[*requestLog](c)
		panic("handler failed")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/work", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotNil(t, log)
	assert.Equal(t, 1, log.closed)
}

func TestScope_CloseErrorDoesNotFailRequest(t *testing.T) {
	r, _ := newScoped(t, func(c *container.Container, w http.ResponseWriter, _ *http.Request) {
		container.MustResolve[*requestLog](c).closeErr = errors.New("flush failed")
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/work", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
