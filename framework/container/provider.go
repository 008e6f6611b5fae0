package container

import (
	"fmt"
	"reflect"
)

// ── Provider ──────────────────────────────────────────────────────────────────

// Provider is a construction strategy for one type. The container calls
// Create whenever a registration without a builder function needs a new
// instance; it does not assume Create is pure, so a provider may hand out a
// value it cached itself.
type Provider interface {
	// Type returns the type this provider produces.
	Type() reflect.Type

	// Create returns an instance of Type.
	Create() (any, error)
}

// ProviderFunc adapts a plain function into a [Provider].
type ProviderFunc struct {
	typ reflect.Type
	fn  func() (any, error)
}

// NewProviderFunc returns a provider producing t by calling fn.
func NewProviderFunc(t reflect.Type, fn func() (any, error)) *ProviderFunc {
	return &ProviderFunc{typ: t, fn: fn}
}

func (p *ProviderFunc) Type() reflect.Type   { return p.typ }
func (p *ProviderFunc) Create() (any, error) { return p.fn() }

// ── TypedProvider ─────────────────────────────────────────────────────────────

// TypedProvider is a [Provider] whose create function returns T, so callers
// holding the concrete provider get a typed value without an assertion.
//
//	p := container.NewTypedProvider(c, func(c *container.Container) (*Mailer, error) {
//	    cfg, err := container.Resolve[*Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewMailer(cfg), nil
//	})
//	c.For(container.TypeOf[Mailer]()).UseProvider(p)
type TypedProvider[T any] struct {
	container *Container
	create    func(c *Container) (T, error)
}

// NewTypedProvider returns a provider for T bound to c.
func NewTypedProvider[T any](c *Container, create func(c *Container) (T, error)) *TypedProvider[T] {
	return &TypedProvider[T]{container: c, create: create}
}

// Type returns the reflect.Type of T.
func (p *TypedProvider[T]) Type() reflect.Type { return TypeOf[T]() }

// CreateTyped builds a T.
func (p *TypedProvider[T]) CreateTyped() (T, error) {
	if p.container == nil {
		var zero T
		return zero, fmt.Errorf("%w: typed provider for %s has no container", ErrInvalidArgument, p.Type())
	}
	return p.create(p.container)
}

// Create builds a T and returns it as any.
func (p *TypedProvider[T]) Create() (any, error) {
	v, err := p.CreateTyped()
	if err != nil {
		return nil, err
	}
	return v, nil
}
