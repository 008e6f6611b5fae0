package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/scope"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the application configuration.
//
// Registered services:
//   - *config.Config (singleton)
//
// Config, when set, is registered as is. Otherwise the configuration is
// loaded from EnvFiles on first resolve.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	if p.Config != nil {
		return container.For[*config.Config](c).UseInstance(p.Config)
	}
	envFiles := p.EnvFiles
	return container.For[*config.Config](c).
		UseFunc(func() (any, error) { return config.Load(envFiles...), nil }).
		Use(container.TypeOf[*config.Config]())
}

// ── LoggerServiceProvider ─────────────────────────────────────────────────────

// LoggerServiceProvider registers the zap logger.
//
// Registered services:
//   - *zap.Logger (singleton), built from *config.Config unless Logger is set
type LoggerServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggerServiceProvider) Register(c *container.Container) error {
	if p.Logger != nil {
		return container.For[*zap.Logger](c).UseInstance(p.Logger)
	}
	return container.For[*zap.Logger](c).UseProvider(
		container.NewTypedProvider(c, func(c *container.Container) (*zap.Logger, error) {
			cfg, err := container.Resolve[*config.Config](c)
			if err != nil {
				return nil, err
			}
			return logging.New(cfg)
		}),
	)
}

// ── ScopeServiceProvider ──────────────────────────────────────────────────────

// ScopeServiceProvider registers the scope tracker shared by the scope
// middleware and every request-scoped service.
//
// Registered services:
//   - *scope.Tracker (singleton)
type ScopeServiceProvider struct {
	container.BaseProvider
}

func (p *ScopeServiceProvider) Register(c *container.Container) error {
	if err := c.Constructor(scope.NewTracker); err != nil {
		return err
	}
	return container.For[*scope.Tracker](c).Use(container.TypeOf[*scope.Tracker]())
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router, built by constructor
// injection from the logger. When the configuration enables it, Boot mounts
// the registration inspector.
//
// Registered services:
//   - *routing.Router (singleton)
type RoutingServiceProvider struct{}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	if err := c.Constructor(routing.New); err != nil {
		return err
	}
	return container.For[*routing.Router](c).Use(container.TypeOf[*routing.Router]())
}

func (p *RoutingServiceProvider) Boot(c *container.Container) error {
	cfg, err := container.Resolve[*config.Config](c)
	if err != nil {
		return err
	}
	if !cfg.Container.Inspector {
		return nil
	}
	router, err := container.Resolve[*routing.Router](c)
	if err != nil {
		return err
	}
	gohttp.NewInspector(c).Routes(router)
	return nil
}
