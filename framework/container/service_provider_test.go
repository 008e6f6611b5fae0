package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type loggingProvider struct {
	registerCalled int
	bootCalled     int
	booted         *testLogger
}

func (p *loggingProvider) Register(c *container.Container) error {
	p.registerCalled++
	return c.Constructor(newTestLogger)
}

func (p *loggingProvider) Boot(c *container.Container) error {
	p.bootCalled++
	l, err := container.Resolve[*testLogger](c)
	p.booted = l
	return err
}

// multiProvider registers several services and relies on BaseProvider.Boot.
type multiProvider struct {
	container.BaseProvider
	name string
}

func (p *multiProvider) Register(c *container.Container) error {
	if err := container.For[*testConfig](c).UseInstance(newTestConfig()); err != nil {
		return err
	}
	return container.For[greeter](c).
		UseFunc(func() (any, error) { return newEnglishGreeter(), nil }).
		Use(typeOf[*englishGreeter]())
}

type failingProvider struct {
	registerErr error
	bootErr     error
}

func (p *failingProvider) Register(*container.Container) error { return p.registerErr }
func (p *failingProvider) Boot(*container.Container) error     { return p.bootErr }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_RegisterCalledImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &loggingProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalled)
	assert.Zero(t, p.bootCalled, "Boot must wait for registry.Boot()")
	assert.False(t, reg.Booted())
}

func TestRegistry_Boot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &loggingProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.True(t, reg.Booted())
	assert.Equal(t, 1, p.bootCalled)
	require.NotNil(t, p.booted)
	assert.Equal(t, "app", p.booted.Prefix)
}

func TestRegistry_Boot_Idempotent(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &loggingProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())
	require.NoError(t, reg.Boot())

	assert.Equal(t, 1, p.bootCalled)
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &loggingProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalled)
	assert.Len(t, reg.Providers(), 1)
}

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&multiProvider{}))
	require.NoError(t, reg.Register(&loggingProvider{}))
	require.NoError(t, reg.Boot())

	cfg, err := container.Resolve[*testConfig](c)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost", cfg.DSN)

	g, err := container.Resolve[greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())

	assert.Len(t, reg.Providers(), 2)
}

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Boot())

	p := &loggingProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.bootCalled)
}

func TestRegistry_Errors(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		reg := container.NewProviderRegistry(container.New())
		assert.ErrorIs(t, reg.Register(nil), container.ErrInvalidArgument)
	})

	t.Run("register error is wrapped and provider skipped", func(t *testing.T) {
		reg := container.NewProviderRegistry(container.New())
		err := reg.Register(&failingProvider{registerErr: errLeaf})
		require.ErrorIs(t, err, errLeaf)
		assert.Contains(t, err.Error(), "registering *container_test.failingProvider")
		assert.Empty(t, reg.Providers())
	})

	t.Run("boot stops at first error", func(t *testing.T) {
		reg := container.NewProviderRegistry(container.New())
		after := &loggingProvider{}
		require.NoError(t, reg.Register(&failingProvider{bootErr: errLeaf}))
		require.NoError(t, reg.Register(after))

		err := reg.Boot()
		require.ErrorIs(t, err, errLeaf)
		assert.Contains(t, err.Error(), "booting *container_test.failingProvider")
		assert.Zero(t, after.bootCalled)
	})

	t.Run("duplicate registration across providers", func(t *testing.T) {
		reg := container.NewProviderRegistry(container.New())
		require.NoError(t, reg.Register(&multiProvider{name: "first"}))
		err := reg.Register(&multiProvider{name: "second"})
		assert.ErrorIs(t, err, container.ErrDuplicateRegistration)
	})
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	assert.NoError(t, p.Boot(container.New()))
}
