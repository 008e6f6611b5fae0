// Package app wires configuration, logging, the container and the HTTP
// server into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/scope"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application. It embeds the Container and
// ProviderRegistry so user code can register and resolve directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	logger *zap.Logger
}

// New loads configuration from envFiles, builds the logger and registers the
// framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, logger)
}

// NewWithConfig builds an application around an existing configuration and
// logger.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("%w: nil config or logger", container.ErrInvalidArgument)
	}

	c := container.New(container.WithLogger(logger))
	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    cfg,
		logger:    logger,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggerServiceProvider{Logger: logger},
		&providers.ScopeServiceProvider{},
		&providers.RoutingServiceProvider{},
	} {
		if err := a.Providers.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.logger }

// Router resolves the HTTP router.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Scopes resolves the scope tracker.
func (a *Application) Scopes() *scope.Tracker {
	return container.MustResolve[*scope.Tracker](a.Container)
}

// DefaultLifetime is the configured lifetime for application services.
func (a *Application) DefaultLifetime() (container.Lifetime, error) {
	return a.config.Container.Lifetime()
}

// Run boots the application if needed and serves HTTP until ctx is done.
// On return every cached service has been shut down.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + a.config.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server started",
			zap.String("app", a.config.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", a.config.App.Env),
		)
		serveErr <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("server shutdown: %w", err)
		}
	}

	return errors.Join(runErr, a.Shutdown(context.Background()))
}

// Shutdown closes every cached service.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.Container.Shutdown(ctx)
	_ = a.logger.Sync()
	return err
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
