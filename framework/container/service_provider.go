package container

import (
	"fmt"
	"reflect"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register is called as soon as the provider is added to a
// [ProviderRegistry]. Boot is called after all providers have registered,
// so it is safe to resolve other services there.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(c *container.Container) error {
//	    return container.For[Mailer](c).Use(container.TypeOf[*smtpMailer]())
//	}
//
//	func (p *MailServiceProvider) Boot(c *container.Container) error {
//	    _, err := container.Resolve[Mailer](c)
//	    return err
//	}
type ServiceProvider interface {
	// Register adds registrations to the container.
	// Do not resolve other services here; use Boot for that.
	Register(c *Container) error

	// Boot runs after every provider has registered.
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(c *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots [ServiceProvider]s against one
// container.
type ProviderRegistry struct {
	container  *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		container:  c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Adding the same
// provider value twice is a no-op. A provider added after [ProviderRegistry.Boot]
// is booted immediately.
func (r *ProviderRegistry) Register(p ServiceProvider) error {
	if p == nil {
		return fmt.Errorf("%w: nil service provider", ErrInvalidArgument)
	}
	if r.registered[p] {
		return nil
	}

	if err := p.Register(r.container); err != nil {
		return fmt.Errorf("registering %s: %w", providerName(p), err)
	}
	r.registered[p] = true
	r.providers = append(r.providers, p)

	if r.booted {
		return r.boot(p)
	}
	return nil
}

// Boot calls Boot on every provider in registration order and stops at the
// first error. Calling it again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, p := range r.providers {
		if err := r.boot(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) boot(p ServiceProvider) error {
	if err := p.Boot(r.container); err != nil {
		return fmt.Errorf("booting %s: %w", providerName(p), err)
	}
	return nil
}

// Booted returns true once Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }

func providerName(p ServiceProvider) string {
	return reflect.TypeOf(p).String()
}
