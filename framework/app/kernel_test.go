package app_test

import (
	"context"
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

type pool struct{ closed bool }

func (p *pool) Close() error {
	p.closed = true
	return nil
}

type poolProvider struct {
	container.BaseProvider
	pool *pool
}

func (p *poolProvider) Register(c *container.Container) error {
	return container.For[*pool](c).UseInstance(p.pool)
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "test", Env: "testing", Port: "0"},
		Container: config.ContainerConfig{DefaultLifetime: "transient", Inspector: true},
		Log:       config.LogConfig{Level: "error"},
	}
}

func newApp(t *testing.T) *app.Application {
	t.Helper()
	a, err := app.NewWithConfig(testConfig(), zap.NewNop())
	require.NoError(t, err)
	return a
}

func TestNew_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := app.New("testdata/missing.env")
	assert.Error(t, err)
}

func TestNewWithConfig_NilArguments(t *testing.T) {
	_, err := app.NewWithConfig(nil, zap.NewNop())
	assert.ErrorIs(t, err, container.ErrInvalidArgument)

	_, err = app.NewWithConfig(testConfig(), nil)
	assert.ErrorIs(t, err, container.ErrInvalidArgument)
}

func TestApplication_FrameworkServices(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.Boot())

	cfg, err := container.Resolve[*config.Config](a.Container)
	require.NoError(t, err)
	assert.Same(t, a.Config(), cfg)

	logger, err := container.Resolve[*zap.Logger](a.Container)
	require.NoError(t, err)
	assert.Same(t, a.Logger(), logger)

	assert.Same(t, a.Scopes(), a.Scopes())
	assert.Same(t, a.Router(), a.Router())
	assert.Len(t, a.Providers.Providers(), 4)
}

func TestApplication_InspectorMounted(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.Boot())

	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/registrations", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApplication_DefaultLifetime(t *testing.T) {
	l, err := newApp(t).DefaultLifetime()
	require.NoError(t, err)
	assert.Equal(t, container.Transient, l)
}

func TestApplication_Environment(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsDebug())
}

func TestApplication_Run_ShutsDownServices(t *testing.T) {
	a := newApp(t)
	p := &pool{}
	require.NoError(t, a.Register(&poolProvider{pool: p}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Run(ctx))
	assert.True(t, a.Providers.Booted())
	assert.True(t, p.closed)

	_, err := container.Resolve[*pool](a.Container)
	assert.ErrorIs(t, err, container.ErrAlreadyShutdown)
}
