package container

import (
	"fmt"
	"reflect"
)

// ── Generics helpers ──────────────────────────────────────────────────────────

// TypeOf returns the reflect.Type of T. Unlike reflect.TypeOf it works for
// interface types, which makes it the usual way to spell a service type.
//
//	container.TypeOf[Logger]()   // the interface, not a concrete type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register registers TService with TTarget as its target type.
//
//	container.Register[Clock, *systemClock](c, container.WithLifetime(container.Transient),
//	    container.WithBuilder(func() (any, error) { return &systemClock{}, nil }))
func Register[TService, TTarget any](c *Container, opts ...Option) error {
	return c.RegisterType(TypeOf[TService](), TypeOf[TTarget](), opts...)
}

// Resolve resolves T and asserts the result.
//
//	// Instead of: v, err := c.Resolve(container.TypeOf[*Mailer]()); m := v.(*Mailer)
//	// Write:      m, err := container.Resolve[*Mailer](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := TypeOf[T]()

	instance, err := c.Resolve(t)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s resolved to %T", ErrInvalidRegistration, t, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Meant for bootstrap code
// where a missing service is a programming error.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("container: MustResolve[%s]: %v", TypeOf[T](), err))
	}
	return v
}

// IsRegistered reports whether T has a registration in c.
func IsRegistered[T any](c *Container) bool {
	return c.IsRegistered(TypeOf[T]())
}

// For starts a fluent registration of T.
func For[T any](c *Container) *RegistrationBuilder {
	return c.For(TypeOf[T]())
}
