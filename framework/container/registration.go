package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── Registration ──────────────────────────────────────────────────────────────

// BuilderFunc builds an instance for a registration. It overrides the
// registration's provider when both are set.
type BuilderFunc func() (any, error)

// ScopeFunc returns the current scope token for a Scoped registration.
//
//	reg := container.NewRegistration(svc, target,
//	    container.WithScope(func(*container.Registration) any { return tenantID() }))
type ScopeFunc func(r *Registration) any

// Registration describes one service mapping: which service type it answers
// for, how instances are built, and how long they live.
//
// The service type never changes once set. The cached instance and the scope
// token are owned by the registration and written only by the [Container]
// that holds it.
type Registration struct {
	serviceType reflect.Type
	targetType  reflect.Type
	builder     BuilderFunc
	provider    Provider
	lifetime    Lifetime
	scopeFunc   ScopeFunc
	metadata    any

	// build serializes check, construct and store for Singleton and
	// Scoped resolution. Acquire it before mu.
	build sync.Mutex

	// mu guards cached and scopeToken.
	mu         sync.Mutex
	cached     any
	scopeToken any
}

// Option configures a [Registration] during construction.
type Option func(*Registration)

// NewRegistration creates a registration for serviceType. The lifetime
// defaults to [Singleton].
func NewRegistration(serviceType, targetType reflect.Type, opts ...Option) *Registration {
	r := &Registration{
		serviceType: serviceType,
		targetType:  targetType,
		lifetime:    Singleton,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithBuilder sets the function used to build instances.
func WithBuilder(fn BuilderFunc) Option {
	return func(r *Registration) { r.builder = fn }
}

// WithProvider sets the provider used when no builder function is present.
func WithProvider(p Provider) Option {
	return func(r *Registration) { r.provider = p }
}

// WithLifetime sets the [Lifetime]. The default is [Singleton].
func WithLifetime(l Lifetime) Option {
	return func(r *Registration) { r.lifetime = l }
}

// WithInstance seeds the cache with a pre-built instance.
func WithInstance(instance any) Option {
	return func(r *Registration) { r.cached = instance }
}

// WithScope makes the registration [Scoped] and sets the function that
// computes the current scope token.
func WithScope(fn ScopeFunc) Option {
	return func(r *Registration) {
		r.scopeFunc = fn
		r.lifetime = Scoped
	}
}

// WithScopeToken sets the initial scope token. It is compared against the
// first value returned by the ScopeFunc.
func WithScopeToken(token any) Option {
	return func(r *Registration) { r.scopeToken = token }
}

// WithMetadata attaches opaque user data.
func WithMetadata(metadata any) Option {
	return func(r *Registration) { r.metadata = metadata }
}

// ServiceType returns the type the registration is resolved by.
func (r *Registration) ServiceType() reflect.Type { return r.serviceType }

// TargetType returns the concrete type built for the service.
func (r *Registration) TargetType() reflect.Type { return r.targetType }

// Builder returns the builder function, or nil.
func (r *Registration) Builder() BuilderFunc { return r.builder }

// Provider returns the provider, or nil.
func (r *Registration) Provider() Provider { return r.provider }

// Lifetime returns the lifetime policy.
func (r *Registration) Lifetime() Lifetime { return r.lifetime }

// ScopeFunc returns the scope token function, or nil.
func (r *Registration) ScopeFunc() ScopeFunc { return r.scopeFunc }

// Metadata returns the user data attached to the registration.
func (r *Registration) Metadata() any { return r.metadata }

// CachedInstance returns the currently cached instance, or nil.
func (r *Registration) CachedInstance() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached
}

// ScopeToken returns the last scope token seen by the container.
func (r *Registration) ScopeToken() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scopeToken
}

func (r *Registration) store(inst any) {
	r.mu.Lock()
	r.cached = inst
	r.mu.Unlock()
}

// String returns "service -> target (lifetime)".
func (r *Registration) String() string {
	return fmt.Sprintf("%s -> %s (%s)", typeName(r.serviceType), typeName(r.targetType), r.lifetime)
}

// validate checks what Register requires of a registration.
func (r *Registration) validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil registration", ErrInvalidRegistration)
	}
	if r.serviceType == nil {
		return fmt.Errorf("%w: missing service type", ErrInvalidRegistration)
	}
	if r.lifetime == Scoped && r.scopeFunc == nil {
		return fmt.Errorf("%w: scoped %s has no scope function", ErrInvalidRegistration, r.serviceType)
	}
	return nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
