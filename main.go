package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/scope"
)

// ── Demo services ────────────────────────────────────────────────────────────

// Greeter is resolved by interface.
type Greeter interface {
	Greet(name string) string
}

type DefaultGreeter struct {
	appName string
	logger  *zap.Logger
}

// NewGreeter is picked up by constructor injection.
func NewGreeter(cfg *config.Config, logger *zap.Logger) *DefaultGreeter {
	return &DefaultGreeter{appName: cfg.App.Name, logger: logger}
}

func (g *DefaultGreeter) Greet(name string) string {
	g.logger.Debug("greeting", zap.String("name", name))
	return fmt.Sprintf("Hello %s, from %s!", name, g.appName)
}

// RequestLog collects the steps of one request and lives as long as it does.
type RequestLog struct {
	ID     string
	Steps  []string
	logger *zap.Logger
}

func NewRequestLog(tracker *scope.Tracker, logger *zap.Logger) *RequestLog {
	return &RequestLog{ID: tracker.Current().String(), logger: logger}
}

func (l *RequestLog) Add(step string) { l.Steps = append(l.Steps, step) }

func (l *RequestLog) Close() error {
	l.logger.Debug("request log closed", zap.String("scope", l.ID), zap.Strings("steps", l.Steps))
	return nil
}

// ── Demo provider ────────────────────────────────────────────────────────────

// DemoServiceProvider registers the demo services and routes.
type DemoServiceProvider struct {
	// Lifetime applies to the greeter. Scoped falls back to Singleton since
	// the greeter has no scope of its own.
	Lifetime container.Lifetime
	Tracker  *scope.Tracker
}

func (p *DemoServiceProvider) Register(c *container.Container) error {
	if err := c.Constructor(NewGreeter, NewRequestLog); err != nil {
		return err
	}

	lifetime := p.Lifetime
	if lifetime == container.Scoped {
		lifetime = container.Singleton
	}
	if err := container.For[Greeter](c).
		WithLifetime(lifetime).
		SetMetadata("demo").
		Use(container.TypeOf[*DefaultGreeter]()); err != nil {
		return err
	}

	return container.For[*RequestLog](c).
		InScope(p.Tracker.ScopeFunc()).
		Use(container.TypeOf[*RequestLog]())
}

func (p *DemoServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c)
	if err != nil {
		return err
	}

	router.Group(func(g *routing.Router) {
		g.Middleware(gohttp.Scope(p.Tracker, c))
		g.Get("/hello/{name}", func(w http.ResponseWriter, r *http.Request) {
			req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

			log := container.MustResolve[*RequestLog](c)
			log.Add("resolve greeter")
			greeter, err := container.Resolve[Greeter](c)
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			log.Add("greet")
			res.Success(map[string]any{
				"message": greeter.Greet(req.RouteParam("name")),
				"scope":   log.ID,
				"steps":   log.Steps,
			})
		})
	})
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lifetime, err := application.DefaultLifetime()
	if err != nil {
		application.Logger().Fatal("invalid CONTAINER_DEFAULT_LIFETIME", zap.Error(err))
	}

	demo := &DemoServiceProvider{Lifetime: lifetime, Tracker: application.Scopes()}
	if err := application.Register(demo); err != nil {
		application.Logger().Fatal("register demo services", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("application stopped", zap.Error(err))
	}
}
