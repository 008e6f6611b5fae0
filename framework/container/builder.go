package container

import (
	"fmt"
	"reflect"
)

// RegistrationBuilder implements the fluent registration API. Every step
// returns the builder; the terminal Use, UseInstance and UseProvider calls
// register the result and report the first error recorded along the way.
//
//	err := c.For(container.TypeOf[Mailer]()).
//	    AsTransient().
//	    SetMetadata("smtp").
//	    Use(container.TypeOf[*smtpMailer]())
type RegistrationBuilder struct {
	container   *Container
	reg         *Registration
	metadataSet bool
	err         error
}

// NewRegistrationBuilder returns an empty builder for c. Most callers start
// with [Container.For] instead.
func NewRegistrationBuilder(c *Container) *RegistrationBuilder {
	b := &RegistrationBuilder{container: c, reg: NewRegistration(nil, nil)}
	if c == nil {
		b.fail(fmt.Errorf("%w: nil container", ErrInvalidArgument))
	}
	return b
}

// For starts registering serviceType.
func (c *Container) For(serviceType reflect.Type) *RegistrationBuilder {
	return NewRegistrationBuilder(c).For(serviceType)
}

// For sets the service type. It may be called once per builder.
func (b *RegistrationBuilder) For(serviceType reflect.Type) *RegistrationBuilder {
	switch {
	case serviceType == nil:
		b.fail(fmt.Errorf("%w: nil service type", ErrInvalidArgument))
	case b.reg.serviceType != nil:
		b.fail(fmt.Errorf("%w: builder already registers %s", ErrInvalidRegistration, b.reg.serviceType))
	default:
		b.reg.serviceType = serviceType
	}
	return b
}

// WithLifetime sets the lifetime.
func (b *RegistrationBuilder) WithLifetime(l Lifetime) *RegistrationBuilder {
	b.reg.lifetime = l
	return b
}

// AsSingleton is WithLifetime(Singleton).
func (b *RegistrationBuilder) AsSingleton() *RegistrationBuilder { return b.WithLifetime(Singleton) }

// AsTransient is WithLifetime(Transient).
func (b *RegistrationBuilder) AsTransient() *RegistrationBuilder { return b.WithLifetime(Transient) }

// InScope sets the scope function and makes the registration Scoped.
func (b *RegistrationBuilder) InScope(fn ScopeFunc) *RegistrationBuilder {
	switch {
	case fn == nil:
		b.fail(fmt.Errorf("%w: nil scope function", ErrInvalidArgument))
	case b.reg.scopeFunc != nil:
		b.fail(fmt.Errorf("%w: scope function already set", ErrInvalidRegistration))
	default:
		b.reg.scopeFunc = fn
		b.reg.lifetime = Scoped
	}
	return b
}

// SetMetadata attaches opaque user data. It may be called once per builder.
func (b *RegistrationBuilder) SetMetadata(metadata any) *RegistrationBuilder {
	if b.metadataSet {
		b.fail(fmt.Errorf("%w: metadata already set", ErrInvalidRegistration))
		return b
	}
	b.reg.metadata = metadata
	b.metadataSet = true
	return b
}

// UseFunc sets the builder function. Finish with Use or UseInstance.
func (b *RegistrationBuilder) UseFunc(fn BuilderFunc) *RegistrationBuilder {
	switch {
	case fn == nil:
		b.fail(fmt.Errorf("%w: nil builder function", ErrInvalidArgument))
	case b.reg.builder != nil:
		b.fail(fmt.Errorf("%w: builder function already set", ErrInvalidRegistration))
	default:
		b.reg.builder = fn
	}
	return b
}

// Use sets the target type and registers. Without an explicit provider the
// target is built by a [DefaultProvider].
func (b *RegistrationBuilder) Use(targetType reflect.Type) error {
	if b.err != nil {
		return b.err
	}
	if b.reg.targetType != nil {
		return b.fail(fmt.Errorf("%w: target type already set to %s", ErrInvalidRegistration, b.reg.targetType))
	}

	if b.reg.provider == nil {
		p, err := NewDefaultProvider(targetType, b.container)
		if err != nil {
			return b.fail(err)
		}
		b.reg.provider = p
	}
	b.reg.targetType = targetType

	return b.fail(b.container.Register(b.reg))
}

// UseInstance seeds the cache with instance and registers its dynamic type
// as the target. Transient and Scoped registrations must have a builder
// function, since they have to build later instances themselves.
func (b *RegistrationBuilder) UseInstance(instance any) error {
	if b.err != nil {
		return b.err
	}
	if b.reg.cached != nil {
		return b.fail(fmt.Errorf("%w: instance already set", ErrInvalidRegistration))
	}
	if b.reg.builder == nil && (b.reg.lifetime == Transient || b.reg.lifetime == Scoped) {
		return b.fail(fmt.Errorf("%w: %s lifetime needs a builder function to create later instances", ErrInvalidRegistration, b.reg.lifetime))
	}

	b.reg.cached = instance
	return b.Use(reflect.TypeOf(instance))
}

// UseProvider sets the provider and registers with the provider's type as
// the target.
func (b *RegistrationBuilder) UseProvider(p Provider) error {
	if b.err != nil {
		return b.err
	}
	if p == nil {
		return b.fail(fmt.Errorf("%w: nil provider", ErrInvalidArgument))
	}
	if b.reg.provider != nil {
		return b.fail(fmt.Errorf("%w: provider already set", ErrInvalidRegistration))
	}

	b.reg.provider = p
	return b.Use(p.Type())
}

// Err returns the first error recorded by the builder.
func (b *RegistrationBuilder) Err() error { return b.err }

// fail records err if it is the first one and returns the recorded error.
func (b *RegistrationBuilder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return b.err
}
