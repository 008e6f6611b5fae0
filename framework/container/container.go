package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the registry of service registrations and the engine that
// resolves them.
//
// It supports:
//   - Register / RegisterType / the fluent For(...).Use(...) builder
//   - Resolve (untyped) and Resolve[T] (generic)
//   - Transient, Singleton and Scoped lifetimes
//   - Constructor injection for registered and unregistered types
//   - Shutdown, which closes cached io.Closer instances
//
// A Container is created with [New] and passed to the code that needs it;
// there is no package-level instance.
type Container struct {
	mu sync.RWMutex

	// registration order is kept for Registrations and Shutdown
	registrations []*Registration

	// service type → registration
	index map[reflect.Type]*Registration

	// target type → constructors, in registration order
	constructors map[reflect.Type][]constructor

	logger   *zap.Logger
	shutdown bool
}

// ContainerOption configures a [Container] created by [New].
type ContainerOption func(*Container)

// WithLogger sets the logger used for registration and lifecycle events.
// The default discards everything.
func WithLogger(l *zap.Logger) ContainerOption {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty container. The container registers itself as a
// singleton so constructors may depend on *Container.
func New(opts ...ContainerOption) *Container {
	c := &Container{
		index:        make(map[reflect.Type]*Registration),
		constructors: make(map[reflect.Type][]constructor),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	self := TypeOf[*Container]()
	if err := c.Register(NewRegistration(self, self, WithInstance(c))); err != nil {
		panic(fmt.Sprintf("container: registering itself: %v", err))
	}
	return c
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds r to the container. It fails with [ErrInvalidRegistration]
// when r has no service type (or is Scoped without a scope function), and
// with [ErrDuplicateRegistration] when the service type is already present;
// the existing registration is left untouched.
//
// A registration belongs to exactly one container.
func (c *Container) Register(r *Registration) error {
	if err := r.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrAlreadyShutdown
	}
	if _, exists := c.index[r.serviceType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, r.serviceType)
	}

	c.index[r.serviceType] = r
	c.registrations = append(c.registrations, r)

	c.logger.Debug("service registered",
		zap.String("service", typeName(r.serviceType)),
		zap.String("target", typeName(r.targetType)),
		zap.Stringer("lifetime", r.lifetime),
	)
	return nil
}

// RegisterType builds a registration from its arguments and registers it.
//
//	c.RegisterType(container.TypeOf[Clock](), container.TypeOf[*systemClock](),
//	    container.WithBuilder(func() (any, error) { return &systemClock{}, nil }),
//	    container.WithLifetime(container.Transient))
func (c *Container) RegisterType(serviceType, targetType reflect.Type, opts ...Option) error {
	return c.Register(NewRegistration(serviceType, targetType, opts...))
}

// Constructor records constructor functions used by the default provider.
// Each fn must have the shape func(deps...) T or func(deps...) (T, error);
// it is indexed by T. Several constructors may share a T: the one with the
// most parameters wins, ties going to the one recorded first.
//
//	c.Constructor(NewUserService, NewUserRepo)
func (c *Container) Constructor(fns ...any) error {
	parsed := make([]constructor, 0, len(fns))
	for _, fn := range fns {
		ctor, err := newConstructor(fn)
		if err != nil {
			return err
		}
		parsed = append(parsed, ctor)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ctor := range parsed {
		c.constructors[ctor.out] = append(c.constructors[ctor.out], ctor)
	}
	return nil
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// IsRegistered reports whether serviceType has a registration. A nil type is
// never registered.
func (c *Container) IsRegistered(serviceType reflect.Type) bool {
	_, ok := c.Registration(serviceType)
	return ok
}

// Registration returns the registration for serviceType.
func (c *Container) Registration(serviceType reflect.Type) (*Registration, bool) {
	if serviceType == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.index[serviceType]
	return r, ok
}

// Registrations returns the registrations in the order they were added.
func (c *Container) Registrations() []*Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.registrations)
}

// ── Shutdown ──────────────────────────────────────────────────────────────────

// Shutdown closes every cached Singleton and Scoped instance that implements
// io.Closer, newest registration first, and clears the caches. If ctx ends
// first the remaining instances are skipped and ctx's error is part of the
// result. Later calls to Shutdown, Register and Resolve return
// [ErrAlreadyShutdown].
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return ErrAlreadyShutdown
	}
	c.shutdown = true
	regs := slices.Clone(c.registrations)
	c.mu.Unlock()

	var errs []error
	for i := len(regs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		r := regs[i]
		if r.lifetime == Transient {
			continue
		}

		r.build.Lock()
		r.mu.Lock()
		inst := r.cached
		r.cached = nil
		r.mu.Unlock()
		r.build.Unlock()

		if err := release(inst); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", r.serviceType, err))
		}
	}

	c.logger.Debug("container shut down", zap.Int("registrations", len(regs)), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

// EndScope closes and drops every Scoped instance cached for token. The
// token stays current, so resolving again under it builds a new instance.
// Close errors are joined.
//
//	id, done := tracker.Enter()
//	defer func() { c.EndScope(id); done() }()
func (c *Container) EndScope(token any) error {
	c.mu.RLock()
	regs := slices.Clone(c.registrations)
	c.mu.RUnlock()

	var errs []error
	ended := 0
	for _, r := range regs {
		if r.lifetime != Scoped {
			continue
		}

		r.build.Lock()
		r.mu.Lock()
		var inst any
		if r.cached != nil && tokensEqual(token, r.scopeToken) {
			inst = r.cached
			r.cached = nil
		}
		r.mu.Unlock()
		r.build.Unlock()

		if inst == nil {
			continue
		}
		ended++
		if err := release(inst); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", r.serviceType, err))
		}
	}

	c.logger.Debug("scope ended", zap.Any("token", token), zap.Int("released", ended))
	return errors.Join(errs...)
}

func (c *Container) isShutdown() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shutdown
}

// release closes inst when it implements io.Closer.
func release(inst any) error {
	if closer, ok := inst.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
