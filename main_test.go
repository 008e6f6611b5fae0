package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
)

func newDemo(t *testing.T, lifetime container.Lifetime) *app.Application {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Name: "Demo", Env: "testing"}}
	a, err := app.NewWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, a.Register(&DemoServiceProvider{Lifetime: lifetime, Tracker: a.Scopes()}))
	require.NoError(t, a.Boot())
	return a
}

func hello(t *testing.T, a *app.Application, name string) map[string]any {
	t.Helper()
	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/"+name, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Data
}

func TestDemo_Hello(t *testing.T) {
	a := newDemo(t, container.Singleton)

	first := hello(t, a, "Ada")
	assert.Equal(t, "Hello Ada, from Demo!", first["message"])
	assert.Equal(t, []any{"resolve greeter", "greet"}, first["steps"])

	second := hello(t, a, "Bob")
	assert.NotEqual(t, first["scope"], second["scope"], "each request gets its own RequestLog")
}

func TestDemo_GreeterLifetime(t *testing.T) {
	for _, l := range []container.Lifetime{container.Transient, container.Singleton, container.Scoped} {
		t.Run(l.String(), func(t *testing.T) {
			a := newDemo(t, l)

			r, ok := a.Registration(container.TypeOf[Greeter]())
			require.True(t, ok)
			if l == container.Scoped {
				assert.Equal(t, container.Singleton, r.Lifetime())
			} else {
				assert.Equal(t, l, r.Lifetime())
			}
			assert.Equal(t, "demo", r.Metadata())
		})
	}
}
